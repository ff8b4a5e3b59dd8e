package errors

import (
	stderrors "errors"
	"io/fs"
	"strings"
	"testing"
)

func TestParseError_CarriesPath(t *testing.T) {
	err := NewParseError("/store/rules/demo/a.yml", stderrors.New("bad yaml"))

	if !strings.Contains(err.Error(), "/store/rules/demo/a.yml") {
		t.Errorf("Error() = %q, want path included", err.Error())
	}

	var pe *ParseError
	if !stderrors.As(error(err), &pe) {
		t.Fatal("errors.As failed to find ParseError")
	}
	if pe.Path != "/store/rules/demo/a.yml" {
		t.Errorf("Path = %q", pe.Path)
	}
}

func TestParseError_Unwraps(t *testing.T) {
	cause := fs.ErrPermission
	err := NewParseError("x.yml", cause)
	if !stderrors.Is(err, fs.ErrPermission) {
		t.Error("expected unwrap to reach the cause")
	}
}

func TestUnknownFormatError_ListsChoices(t *testing.T) {
	err := &UnknownFormatError{Name: "zed", Valid: []string{"cursor", "gemini"}}
	msg := err.Error()
	for _, want := range []string{`"zed"`, "cursor", "gemini"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Error() = %q, want %q included", msg, want)
		}
	}
}

func TestWriteError_Message(t *testing.T) {
	err := &WriteError{Path: "/store/rules/new", Reason: "target project already exists"}
	if !strings.Contains(err.Error(), "target project already exists") {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestExitError_Unwrap(t *testing.T) {
	err := NewUserError(ErrStoreNotFound, "run: polyrc init")
	if !stderrors.Is(err, ErrStoreNotFound) {
		t.Error("ExitError should unwrap to its cause")
	}
	if err.Code != ExitUser {
		t.Errorf("Code = %d, want %d", err.Code, ExitUser)
	}
}
