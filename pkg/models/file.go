package models

// FileAction indicates whether a generated file is new to the project or
// replaces a file that already existed when its task started.
type FileAction string

const (
	// FileActionCreate marks a path not present in the known-file set.
	FileActionCreate FileAction = "create"
	// FileActionModify marks a path that already existed, including paths
	// produced by earlier tasks in the same run.
	FileActionModify FileAction = "modify"
)

// Valid returns true if the action is a known value.
func (a FileAction) Valid() bool {
	switch a {
	case FileActionCreate, FileActionModify:
		return true
	default:
		return false
	}
}

// GeneratedFile is one file produced by an agent. Paths are relative and
// forward-slash separated.
type GeneratedFile struct {
	// Path is the project-relative location of the file.
	Path string `json:"path"`
	// Content is the complete file content.
	Content string `json:"content"`
	// Language is the syntax tag inferred from the file extension,
	// "plaintext" when unknown.
	Language string `json:"language"`
	// Action records whether the file was created or modified, computed
	// against the known-file set as of the start of the producing task.
	Action FileAction `json:"action"`
}

// FileInput is an existing project file supplied by the caller alongside a
// request. Inputs seed the known-file set but are not re-emitted unless an
// agent rewrites them.
type FileInput struct {
	// Path is the project-relative location of the file.
	Path string `json:"path"`
	// Content is the file content as last persisted.
	Content string `json:"content"`
	// Language is the stored syntax tag, if any.
	Language string `json:"language,omitempty"`
}
