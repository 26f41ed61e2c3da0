// Package timezone holds the application timezone, read from APP_TIMEZONE when the package
// is loaded. Use IANA names such as "UTC" or "Asia/Jakarta".
//
// Booking dates and clock times are wall-clock values and are not converted; only audit
// timestamps (created_at, modified_at) go through Now and Format.
package timezone
