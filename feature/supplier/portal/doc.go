// Package portal implements the supplier connector for dealer portals that
// gate their inventory export behind a form login and session cookies.
package portal
