// Package main is the command line client of the file server.
//
// Usage:
//
//	nfsclient list /
//	nfsclient create /docs/
//	nfsclient upload ./report.pdf /docs/report.pdf
//	nfsclient delete /docs
//
// The listing is printed as received; other commands print
// "Response: SUCCESS" or "Response: FAILURE". The exit status is 0 on
// success, 2 when the server answered FAILURE and 1 on local or transport
// errors.
package main
