// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package slug

import "testing"

// TestAnchor exercises anchor generation with a range of heading texts
// covering latin and arabic titles, special characters and edge cases.
func TestAnchor(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		// --- Normal headings ---
		{
			name:  "simple two words",
			input: "Hello World",
			want:  "hello_world",
		},
		{
			name:  "heading with year",
			input: "Travel Tips 2026",
			want:  "travel_tips_2026",
		},
		{
			name:  "arabic heading",
			input: "أفضل وقت لزيارة تركيا",
			want:  "أفضل_وقت_لزيارة_تركيا",
		},

		// --- Special characters ---
		{
			name:  "punctuation marks",
			input: "Hello, World! How's it going?",
			want:  "hello_world_hows_it_going",
		},
		{
			name:  "arabic question mark",
			input: "لماذا جورجيا؟",
			want:  "لماذا_جورجيا",
		},
		{
			name:  "hyphen becomes underscore",
			input: "Day-by-day plan",
			want:  "day_by_day_plan",
		},
		{
			name:  "spaced dash",
			input: "Best Time to Visit - Istanbul",
			want:  "best_time_to_visit___istanbul",
		},

		// --- Whitespace ---
		{
			name:  "leading and trailing spaces",
			input: "  Itinerary  ",
			want:  "itinerary",
		},
		{
			name:  "multiple consecutive spaces collapsed",
			input: "What   to   pack",
			want:  "what_to_pack",
		},
		{
			name:  "newlines treated as whitespace",
			input: "Day\nOne",
			want:  "day_one",
		},

		// --- Edge cases ---
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
		{
			name:  "only special characters",
			input: "!@#$%",
			want:  "",
		},
		{
			name:  "underscores kept",
			input: "snake_case",
			want:  "snake_case",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Anchor(tt.input)
			if got != tt.want {
				t.Errorf("Anchor(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "ascii slug unchanged", input: "istanbul-trip", want: "istanbul-trip"},
		{name: "encoded arabic", input: "%d8%aa%d8%b1%d9%83%d9%8a%d8%a7", want: "تركيا"},
		{name: "already decoded", input: "تركيا", want: "تركيا"},
		{name: "invalid escape", input: "100%-fun", want: "100%-fun"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Decode(tt.input); got != tt.want {
				t.Errorf("Decode(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestPath(t *testing.T) {
	tests := []struct {
		prefix, slug, want string
	}{
		{"/trip", "istanbul", "/trip/istanbul"},
		{"/trip/", "%d8%aa", "/trip/%D8%AA"},
		{"/trip", "ت", "/trip/%D8%AA"},
		{"/posts", "a b", "/posts/a%20b"},
	}
	for _, tt := range tests {
		if got := Path(tt.prefix, tt.slug); got != tt.want {
			t.Errorf("Path(%q, %q) = %q, want %q", tt.prefix, tt.slug, got, tt.want)
		}
	}
}

func TestEqual(t *testing.T) {
	if !Equal("%d8%aa", "ت") {
		t.Error("encoded and decoded forms should be equal")
	}
	if Equal("a", "b") {
		t.Error("different slugs should not be equal")
	}
}
