package api

import "strings"

// bearerAuth marks an operation as requiring a PASETO bearer token.
var bearerAuth = []map[string][]string{{"bearer": {}}}

// orEmpty keeps empty lists as [] rather than null in responses.
func orEmpty[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

// IDPathInput identifies one resource by its integer id.
type IDPathInput struct {
	ID int64 `path:"id" doc:"Resource ID"`
}

// operationID keeps operation IDs unique when one handler serves several methods.
func operationID(base, method string) string {
	return base + strings.ToUpper(method[:1]) + strings.ToLower(method[1:])
}
