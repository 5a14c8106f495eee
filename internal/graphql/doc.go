// Package graphql is a small GraphQL-over-HTTP client built as an ordered
// middleware pipeline.
//
// A Handler executes one Request. Middleware wraps a Handler; Chain composes
// a terminal Handler (normally HTTPTransport) with middlewares so that the
// first listed middleware sees the request first and the response last.
//
// Failures are reported as *Error, which separates a transport cause (the
// request never completed, or the reply was not GraphQL) from the messages
// the server reported in the "errors" array. Partial data is kept on both
// the Response and the Error.
package graphql
