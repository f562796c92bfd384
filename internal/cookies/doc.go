// Package cookies models browser cookies as read from a live automation
// session and converts them to and from the Netscape cookie-jar text format.
// It can also read the cookie databases of Firefox and Chrome profiles.
//
// Every attribute except name and value is optional on the wire, so the
// Cookie type keeps "unset" distinct from the zero value. The jar writer
// applies fixed fallbacks for unset attributes (see FormatRecord).
//
// Cookie values are never logged or formatted into error messages.
// Only Name and Domain may appear in diagnostics.
package cookies
