// Package httpapi implements the supplier connector for feeds served over a
// token-authenticated REST API.
package httpapi
