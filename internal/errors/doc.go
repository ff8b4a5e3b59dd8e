// Package errors defines the error taxonomy shared by the codecs, the
// store, and the CLI.
//
// Typed errors carry the context the operation must surface:
//
//   - [ParseError]: malformed frontmatter or store record, with the file path
//   - [WriteError]: refused write with an explicit reason
//   - [UnknownFormatError]: format name outside the closed codec set,
//     listing the valid choices
//
// Sentinel errors cover conditions callers branch on with [errors.Is],
// such as [ErrStoreNotFound] when the store manifest is absent.
//
// [ExitError] maps an error to a process exit code for the CLI:
//
//	var exitErr *errors.ExitError
//	if errors.As(err, &exitErr) {
//	    os.Exit(exitErr.Code)
//	}
package errors
