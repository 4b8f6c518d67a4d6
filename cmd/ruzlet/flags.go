package main

import (
	"fmt"

	"github.com/spf13/pflag"
)

type SortFlag string

// Set implements pflag.Value.
func (s *SortFlag) Set(v string) error {
	switch v {
	case string(SortDescending):
		*s = SortDescending
	case string(SortAscending):
		*s = SortAscending
	default:
		return fmt.Errorf("invalid value %q, valid values are %q or %q", v, SortAscending, SortDescending)
	}
	return nil
}

// String implements pflag.Value.
func (s *SortFlag) String() string {
	if s == nil {
		return ""
	}
	return string(*s)
}

// Type implements pflag.Value.
func (s *SortFlag) Type() string {
	return "SortFlag"
}

const (
	SortDescending SortFlag = "desc"
	SortAscending  SortFlag = "asc"
)

// FormatFlag is the file format of a deck export
type FormatFlag string

// Set implements pflag.Value.
func (f *FormatFlag) Set(v string) error {
	for _, format := range allFormats {
		if v == string(format) {
			*f = format
			return nil
		}
	}
	return fmt.Errorf("invalid format %q, valid values are %v", v, allFormats)
}

// String implements pflag.Value.
func (f *FormatFlag) String() string {
	if f == nil {
		return ""
	}
	return string(*f)
}

// Type implements pflag.Value.
func (f *FormatFlag) Type() string {
	return "FormatFlag"
}

const (
	FormatYAML     FormatFlag = "yaml"
	FormatMarkdown FormatFlag = "markdown"
)

var (
	_          pflag.Value = (*SortFlag)(nil)
	_          pflag.Value = (*FormatFlag)(nil)
	allFormats             = []FormatFlag{FormatYAML, FormatMarkdown}
)

func (f FormatFlag) extension() string {
	if f == FormatMarkdown {
		return ".md"
	}
	return ".yml"
}
