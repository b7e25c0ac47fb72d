package training

import "testing"

func TestParseProgress(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		want   int
		wantOK bool
	}{
		{name: "bare marker", line: "PROGRESS:37", want: 37, wantOK: true},
		{name: "marker inside line", line: "epoch 3 done PROGRESS:37 loss=0.2", want: 37, wantOK: true},
		{name: "zero", line: "PROGRESS:0", want: 0, wantOK: true},
		{name: "hundred", line: "PROGRESS:100", want: 100, wantOK: true},
		{name: "leading zeros", line: "PROGRESS:007", want: 7, wantOK: true},
		{name: "out of range passes through", line: "PROGRESS:150", want: 150, wantOK: true},
		{name: "first marker wins within a line", line: "PROGRESS:10 PROGRESS:20", want: 10, wantOK: true},
		{name: "digits then junk", line: "PROGRESS:42abc", want: 42, wantOK: true},
		{name: "non-numeric", line: "PROGRESS:abc", wantOK: false},
		{name: "nothing after colon", line: "PROGRESS:", wantOK: false},
		{name: "space before digits", line: "PROGRESS: 42", wantOK: false},
		{name: "no marker", line: "Epoch 5 ended. Loss: 0.3", wantOK: false},
		{name: "empty line", line: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseProgress(tt.line)
			if ok != tt.wantOK {
				t.Fatalf("parseProgress(%q) ok = %v, want %v", tt.line, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("parseProgress(%q) = %d, want %d", tt.line, got, tt.want)
			}
		})
	}
}
