package mandala

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		asset string
		want  MarkerKind
	}{
		{
			name:  "single rule is group boundary",
			asset: "../icon/sinario_line_1.gif",
			want:  MarkerGroupBoundary,
		},
		{
			name:  "double rule is category boundary",
			asset: "../icon/sinario_line_2.gif",
			want:  MarkerCategoryBoundary,
		},
		{
			name:  "bare filename",
			asset: "sinario_line_1.gif",
			want:  MarkerGroupBoundary,
		},
		{
			name:  "unlisted rule variant",
			asset: "../icon/sinario_line_3.gif",
			want:  MarkerUnknown,
		},
		{
			name:  "unrelated asset",
			asset: "../icon/space.gif",
			want:  MarkerUnknown,
		},
		{
			name:  "signature must match whole base name",
			asset: "sinario_line_12.gif",
			want:  MarkerUnknown,
		},
		{
			name:  "empty reference",
			asset: "",
			want:  MarkerUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.asset); got != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.asset, got, tt.want)
			}
		})
	}
}

func TestIsSeparatorAsset(t *testing.T) {
	tests := []struct {
		asset string
		want  bool
	}{
		{"../icon/sinario_line_1.gif", true},
		{"../icon/sinario_line_9.gif", true},
		{"../icon/space.gif", false},
		{"../df/DZ0200703.jpg", false},
	}
	for _, tt := range tests {
		if got := IsSeparatorAsset(tt.asset); got != tt.want {
			t.Errorf("IsSeparatorAsset(%q) = %v, want %v", tt.asset, got, tt.want)
		}
	}
}
