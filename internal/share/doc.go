// Package share derives shareable links for audit reports.
//
// A link has the form <base>/report/<token>, where the token is the report
// URL in unpadded URL-safe base64. The token is reversible, so a link can
// be resolved back to the URL that was audited; it carries no secret.
package share
