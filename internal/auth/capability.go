// Package auth decides whether a caller's role may touch a resource. The
// rules are a flat capability table evaluated as data, replacing the nested
// role/path/method conditionals the gateway used to carry.
package auth

import (
	"net/http"
	"strings"
)

type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleBidder Role = "BIDDER"
	RoleSeller Role = "SELLER"
)

const (
	resourceAuctions = "/auctions"
	resourceBids     = "/bids"
	resourceProducts = "/products"
	resourceUsers    = "/users"
)

var anyMethod = []string{
	http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete,
}

// capabilityTable maps resource -> role -> allowed methods. Rules absent from
// the table are denied, so unknown roles and resources fall through to deny.
var capabilityTable = map[string]map[Role][]string{
	resourceAuctions: {
		RoleAdmin:  anyMethod,
		RoleBidder: {http.MethodGet},
		RoleSeller: {http.MethodGet, http.MethodPost},
	},
	resourceBids: {
		RoleAdmin:  anyMethod,
		RoleBidder: {http.MethodGet, http.MethodPost},
		RoleSeller: {http.MethodGet},
	},
	resourceProducts: {
		RoleAdmin:  anyMethod,
		RoleBidder: {http.MethodGet},
		RoleSeller: {http.MethodGet, http.MethodPost, http.MethodPut},
	},
	resourceUsers: {
		RoleAdmin:  anyMethod,
		RoleBidder: {http.MethodGet, http.MethodPut},
		RoleSeller: {http.MethodGet, http.MethodPut},
	},
}

// resourceOf canonicalizes a request path to its capability resource. Bid
// sub-resources nested under an auction ("/auctions/:id/bids...") are governed
// by the bids rules, not the auction rules.
func resourceOf(path string) string {
	if strings.HasPrefix(path, resourceAuctions) && strings.Contains(path, "/bids") {
		return resourceBids
	}
	for _, r := range []string{resourceAuctions, resourceBids, resourceProducts, resourceUsers} {
		if strings.HasPrefix(path, r) {
			return r
		}
	}
	return ""
}

// Allowed evaluates the capability table for one request.
func Allowed(role Role, path, method string) bool {
	byRole, ok := capabilityTable[resourceOf(path)]
	if !ok {
		return false
	}
	methods, ok := byRole[role]
	if !ok {
		return false
	}
	for _, m := range methods {
		if m == method {
			return true
		}
	}
	return false
}
