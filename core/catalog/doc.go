// Package catalog provides the retail catalog data model and API client.
//
// The client wraps the catalog Admin REST API behind a narrow interface:
// snapshot the item list (cursor pagination via Link headers) and push
// quantity updates. Rate limiting and retry with exponential backoff are
// handled inside the client, so the sync orchestrator treats each call as a
// blocking operation that either succeeds or fails terminally.
package catalog
