package storage

import "testing"

func TestSecureFilename(t *testing.T) {
	tc := []struct {
		in   string
		want string
	}{
		{"sample.mp3", "sample.mp3"},
		{"My Episode 01.mp3", "My_Episode_01.mp3"},
		{"../../etc/passwd", "etc_passwd"},
		{"..\\..\\boot.ini", "boot.ini"},
		{"  spaced   out .wav ", "spaced_out_.wav"},
		{"émission.ogg", "mission.ogg"},
		{".hidden.mp3", "hidden.mp3"},
		{"...", ""},
		{"", ""},
	}
	for _, tt := range tc {
		t.Run(tt.in, func(t *testing.T) {
			if got := SecureFilename(tt.in); got != tt.want {
				t.Errorf("SecureFilename(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestAllowedFile(t *testing.T) {
	allowed := ExtensionSet([]string{"mp3", ".WAV", " ogg ", ""})

	t.Run("accepts known extensions", func(t *testing.T) {
		for _, name := range []string{"song.mp3", "SONG.MP3", "talk.wav", "a.b.ogg"} {
			if !AllowedFile(name, allowed) {
				t.Errorf("AllowedFile(%q) = false, want true", name)
			}
		}
	})

	t.Run("rejects others", func(t *testing.T) {
		for _, name := range []string{"document.txt", "mp3", "song.", "", "archive.mp3.zip"} {
			if AllowedFile(name, allowed) {
				t.Errorf("AllowedFile(%q) = true, want false", name)
			}
		}
	})

	t.Run("normalises set", func(t *testing.T) {
		if len(allowed) != 3 {
			t.Errorf("ExtensionSet size = %d, want 3", len(allowed))
		}
	})
}
