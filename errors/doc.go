/*
Package errors declares the registered error kinds used across escrowd.

Every error returned from a handler should wrap one of the root errors
created with Register. The root error carries the ABCI code reported to the
client, while the wrapping layers add a human readable context:

	return errors.Wrapf(errors.ErrNotFound, "listing %X", asset)

Use Is to test for an error kind, no matter how many times it was wrapped:

	if errors.ErrNotFound.Is(err) { ... }

The first Wrap attaches a stack trace. It can be printed with fmt:
	%s is just the error message
	%+v is the full stack trace
	%v appends a compressed [filename:line] where the error was created
*/
package errors
