// Package identifier canonicalizes product identifiers and supplier status values.
//
// Suppliers and the retail catalog format the same barcode differently
// ("5901-234-567890" vs "5901234567890"); Normalize maps both to one canonical
// form so matching is purely exact-lookup afterwards. ResolveStatus maps
// supplier status text (locale-specific strings like "på lager") to quantities
// using an externally configured table.
package identifier
