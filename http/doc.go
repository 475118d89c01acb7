// Package http provides the request pipeline and the HTTP handlers of the
// quizhall server.
//
// Every request passes through a fixed chain of filters built once at
// startup by Pipeline:
//
//	RequestLogger -> InitRequestContext -> CatchBindingFailure -> [CORS] -> routing table
//
// # Request context
//
// InitRequestContext attaches a RequestContext to each request. It holds
// the request ID, the credentials bound by BindCredentials and the failure
// recorded by a handler. It lives exactly as long as the request and is
// only reachable through the request's context.
//
// # Authentication
//
// BasicAuth guards a route group. It binds the basic auth credentials and
// asks a UserDirectory whether they are valid:
//
//	auth := http.BasicAuth("quizhall", userService)
//	quizzes := http.NewQuizHandler(quizService, auth)
//
// Missing, malformed and invalid credentials are all answered with the
// same 401 challenge. Handlers read the caller with CredentialsFrom.
//
// # Failures
//
// Handlers are HandlerFunc values and return errors instead of writing
// them. CatchBindingFailure turns a *BindingError into
//
//	400 {"message": "<cause>"}
//
// and any other error into a plain 500. The binding helpers DecodeJSON,
// PathUUID and ListQueryFrom report all bad input as *BindingError. Domain
// errors such as quizhall.ErrNotFound are answered by the handlers with
// their own status.
package http
