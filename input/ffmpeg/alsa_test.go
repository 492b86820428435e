package ffmpeg

import "testing"

func TestParseALSADevice(t *testing.T) {
	for in, want := range map[string]ALSADevice{
		"00-00": "hw:0,0",
		"01-03": "hw:1,3",
		"10-07": "hw:10,7",
		"02":    "hw:2",
	} {
		got, err := ParseALSADevice(in)
		if err != nil {
			t.Errorf("ParseALSADevice(%q): %v", in, err)
			continue
		}

		if got != want {
			t.Errorf("ParseALSADevice(%q) = %q, want %q", in, got, want)
		}
	}

	if _, err := ParseALSADevice("1-2-3"); err == nil {
		t.Error("ParseALSADevice accepted three parts")
	}
}

func TestALSAInputArgs(t *testing.T) {
	args := ALSADevice("hw:1,0").InputArgs()
	if len(args) != 4 || args[3] != "hw:1,0" {
		t.Errorf("InputArgs = %v", args)
	}
}
