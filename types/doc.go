// Package types holds the small value types shared by the web and database
// layers: the probe enum and the probe response body.
package types
