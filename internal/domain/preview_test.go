package domain

import "testing"

func TestCanAutoExecute(t *testing.T) {
	warn := []PreviewWarning{{Severity: SeverityCaution, Message: "ambiguous"}}

	tests := []struct {
		name    string
		preview CommandPreview
		want    bool
	}{
		{"low risk confident", CommandPreview{Risk: RiskLow, Confidence: 0.95}, true},
		{"exactly at threshold", CommandPreview{Risk: RiskLow, Confidence: AutoExecuteConfidence}, true},
		{"below threshold", CommandPreview{Risk: RiskLow, Confidence: 0.89}, false},
		{"medium risk", CommandPreview{Risk: RiskMedium, Confidence: 0.99}, false},
		{"high risk", CommandPreview{Risk: RiskHigh, Confidence: 1.0}, false},
		{"critical risk", CommandPreview{Risk: RiskCritical, Confidence: 1.0}, false},
		{"warnings block", CommandPreview{Risk: RiskLow, Confidence: 0.95, Warnings: warn}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.preview.CanAutoExecute(); got != tt.want {
				t.Fatalf("CanAutoExecute() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMoreSevere(t *testing.T) {
	if !MoreSevere(RiskCritical, RiskHigh) || !MoreSevere(RiskMedium, RiskLow) {
		t.Fatal("severity order broken")
	}
	if MoreSevere(RiskLow, RiskLow) || MoreSevere(RiskLow, RiskCritical) {
		t.Fatal("severity order broken")
	}
}
