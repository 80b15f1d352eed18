// Package services defines the business logic for users, categories, agents,
// files, and chat. This file centralizes common service-level error values so
// that they can be consistently returned by service methods and checked by
// callers.
//
// These errors are intended for internal use by the service layer; translation
// into user-facing messages or HTTP status codes is performed once, in the
// handler layer's error table.
package services

import "errors"

// Not-found errors.
var (
	// ErrUserNotFound indicates the requested user does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrCategoryNotFound indicates the requested category does not exist.
	ErrCategoryNotFound = errors.New("category not found")

	// ErrAgentNotFound indicates the requested agent does not exist or is
	// not accessible to the current user.
	ErrAgentNotFound = errors.New("agent not found")

	// ErrGroupNotFound indicates the requested group does not exist.
	ErrGroupNotFound = errors.New("group not found")
)

// Duplicate errors.
var (
	// ErrDuplicateUser is returned when a username or email is already taken.
	ErrDuplicateUser = errors.New("user already exists")

	// ErrDuplicateCategory is returned when a category name already exists
	// (compared case-insensitively after trimming).
	ErrDuplicateCategory = errors.New("category already exists")

	// ErrDuplicateAgent is returned when the owner already has an agent with
	// the same name.
	ErrDuplicateAgent = errors.New("agent already exists")

	// ErrDuplicateFile is returned when the agent already has a file with
	// the same filename.
	ErrDuplicateFile = errors.New("file already exists")
)

// Validation and upstream errors.
var (
	// ErrInvalidInput is returned for business-rule validation failures,
	// such as a public agent created without categories.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedFileType is returned when an upload's content type is
	// outside the PDF/DOCX allow-list.
	ErrUnsupportedFileType = errors.New("unsupported file type")

	// ErrUpstream is returned when the LLM provider fails; callers may
	// retry, the process never treats it as fatal.
	ErrUpstream = errors.New("upstream provider error")
)
