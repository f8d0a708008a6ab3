package render

import (
	"strings"
	"testing"

	"github.com/lspress/bibnorm/internal/entry"
)

func TestEntry_Format(t *testing.T) {
	e := &entry.Entry{
		Type: "article",
		Key:  "Smith2020",
		Fields: map[string]string{
			"year":    "{2020}",
			"author":  "{Smith, Jane}",
			"title":   "{A Study}",
			"journal": "{Language}",
		},
	}
	got := Entry(e)

	want := "@article{Smith2020,\n" +
		"\tauthor = {Smith, Jane},\n" +
		"\tjournal = {Language},\n" +
		"\ttitle = {A Study},\n" +
		"\tyear = {2020}\n" +
		"}"
	if got != want {
		t.Errorf("Entry() =\n%s\nwant:\n%s", got, want)
	}
}

func TestEntry_ExcludedFields(t *testing.T) {
	e := &entry.Entry{
		Type: "article",
		Key:  "X1",
		Fields: map[string]string{
			"title":       "{T}",
			"abstract":    "{should not appear}",
			"keywords":    "{nor this}",
			"bdsk-file-1": "{nor this}",
			"timestamp":   "{nor this}",
		},
	}
	got := Entry(e)

	if strings.Contains(got, "abstract") || strings.Contains(got, "keywords") ||
		strings.Contains(got, "bdsk-file-1") || strings.Contains(got, "timestamp") {
		t.Errorf("excluded fields leaked into output:\n%s", got)
	}
	if !strings.Contains(got, "title = {T}") {
		t.Errorf("title missing:\n%s", got)
	}
}

func TestEntry_Failed(t *testing.T) {
	e := &entry.Entry{Raw: "garbage", Failed: true}
	if got := Entry(e); got != "" {
		t.Errorf("failed entry rendered as %q, want empty", got)
	}
}

func TestEntry_DoubleCommaCollapse(t *testing.T) {
	e := &entry.Entry{
		Type: "misc",
		Key:  "X1",
		Fields: map[string]string{
			"note":  "{ends with a comma,}",
			"title": "{T}",
		},
	}
	got := Entry(e)
	if strings.Contains(got, ",,") {
		t.Errorf("double comma in output:\n%s", got)
	}
}

func TestExcluded(t *testing.T) {
	if !Excluded("abstract") {
		t.Error("abstract should be excluded")
	}
	if Excluded("author") {
		t.Error("author should not be excluded")
	}
}
