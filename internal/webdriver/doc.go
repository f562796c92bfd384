// Package webdriver is a small W3C WebDriver client, just big enough to
// drive chromedriver through a login and read cookies back: create a
// session, navigate, read the current URL, find a link by its text, click
// it, and list cookies.
//
// Errors reported by the remote end are returned as *Error. A failed
// element lookup matches ErrNoSuchElement under errors.Is.
package webdriver
