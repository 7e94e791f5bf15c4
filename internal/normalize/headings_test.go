// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package normalize

import (
	"strings"
	"testing"
)

func TestPrepareContent(t *testing.T) {
	content := `<h2>Best Time</h2><p>text</p>` +
		`<h2 id="custom">Other <em>part</em></h2>` +
		`<h3>Best Time</h3>` +
		`<p><a href="https://wp.example.com/post-x/#day-1">jump</a>` +
		`<a href="https://wp.example.com/trips/?page=2">trips</a>` +
		`<a href="https://other.com/a">other</a></p>`

	a := PrepareContent(content, "wp.example.com")

	wantHeadings := []struct {
		id, text string
		level    int
	}{
		{"best_time", "Best Time", 2},
		{"custom", "Other part", 2},
		{"best_time_2", "Best Time", 3},
	}
	if len(a.Headings) != len(wantHeadings) {
		t.Fatalf("got %d headings, want %d: %+v", len(a.Headings), len(wantHeadings), a.Headings)
	}
	for i, w := range wantHeadings {
		h := a.Headings[i]
		if h.ID != w.id || h.Text != w.text || h.Level != w.level {
			t.Errorf("heading %d = %+v, want %+v", i, h, w)
		}
	}

	for _, want := range []string{
		`<h2 id="best_time">`,
		`<h3 id="best_time_2">`,
		`href="#day-1"`,
		`href="/trips/?page=2"`,
		`href="https://other.com/a"`,
	} {
		if !strings.Contains(a.HTML, want) {
			t.Errorf("HTML missing %s:\n%s", want, a.HTML)
		}
	}
}

func TestPrepareContent_Arabic(t *testing.T) {
	a := PrepareContent(`<h2>أفضل وقت للزيارة</h2>`, "")
	if len(a.Headings) != 1 || a.Headings[0].ID != "أفضل_وقت_للزيارة" {
		t.Errorf("headings = %+v", a.Headings)
	}
}

func TestPrepareContent_Empty(t *testing.T) {
	a := PrepareContent("", "wp.example.com")
	if a.HTML != "" || len(a.Headings) != 0 || a.Headings == nil {
		t.Errorf("PrepareContent(\"\") = %+v", a)
	}
}

func TestHeadings(t *testing.T) {
	hs := Headings(`<p>intro</p><h4>Packing list</h4>`)
	if len(hs) != 1 || hs[0].Level != 4 || hs[0].ID != "packing_list" {
		t.Errorf("Headings = %+v", hs)
	}
}
