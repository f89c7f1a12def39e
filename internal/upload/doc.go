// Package upload performs one multipart upload against one target and turns
// whatever the server answers into a normalized [Result].
//
// The server is an AVideo-style MobileManager endpoint. Its replies are
// unreliable: JSON objects, JSON arrays, HTML error pages, bare text, or
// truncated JSON. [Classify] maps every body to one of a closed set of
// variants; [Client.Upload] never returns an error and never panics past
// its boundary.
package upload
