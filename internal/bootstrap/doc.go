// Package bootstrap brings a browser session from "driver just spawned" to
// "user is logged in".
//
// Establish retries session creation at a fixed interval with no attempt
// limit, because the driver needs an unknown warm-up time before its port
// accepts connections. Gate opens the site, clicks its sign-in link when one
// is shown and then waits, without a timeout, for a human to finish the login
// and land back on the site.
package bootstrap
