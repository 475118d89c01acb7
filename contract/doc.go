// Package contract composes independently documented route groups into a
// single routing table.
//
// Each Group carries its routes, a name and an optional filter that wraps
// only that group's routes. Compose checks that no two routes share a
// method and path, renders an OpenAPI 3.1 description per group and mounts
// a documentation page linking all of them:
//
//	table, err := contract.Compose([]contract.Group{users, quizzes}, contract.Docs{})
//	if err != nil {
//	    return err // contract.ErrRouteConflict on overlapping routes
//	}
//	http.ListenAndServe(":8080", table)
//
// Descriptions are served at /spec/<name>.json and /spec/<name>.yaml and
// the page at /spec. They are rendered once, so repeated reads return the
// same bytes.
package contract
