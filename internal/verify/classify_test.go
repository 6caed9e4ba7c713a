package verify

import (
	"reflect"
	"strings"
	"testing"

	"github.com/okulov/attestor/internal/model"
)

func matches(verdicts ...model.Verdict) model.FactCheckResult {
	result := model.FactCheckResult{Configured: true}
	for _, v := range verdicts {
		result.Matches = append(result.Matches, model.FactCheckMatch{
			Publisher: "Example Checker",
			ReviewURL: "https://example.org/review",
			Verdict:   v,
		})
	}
	return result
}

func item(source model.SourceKind) []model.CorroborationItem {
	return []model.CorroborationItem{{Title: "t", URL: "https://example.org", Source: source}}
}

func TestClassify_OnlyContradicted(t *testing.T) {
	status := Classify(matches(model.VerdictContradicted, model.VerdictContradicted), nil, nil, nil)
	if status.Code != model.StatusContradicted {
		t.Errorf("expected contradicted, got %s", status.Code)
	}
	if status.Confidence != model.ConfidenceHigh {
		t.Errorf("expected high confidence, got %s", status.Confidence)
	}
}

func TestClassify_OnlySupported(t *testing.T) {
	status := Classify(matches(model.VerdictSupported), nil, nil, nil)
	if status.Code != model.StatusSupported || status.Confidence != model.ConfidenceHigh {
		t.Errorf("expected supported/high, got %s/%s", status.Code, status.Confidence)
	}
}

func TestClassify_MixedVerdictsAreContested(t *testing.T) {
	cases := []model.FactCheckResult{
		matches(model.VerdictSupported, model.VerdictContradicted),
		matches(model.VerdictContested),
		matches(model.VerdictContradicted, model.VerdictContested),
		matches(model.VerdictSupported, model.VerdictContested),
	}
	for i, fc := range cases {
		status := Classify(fc, nil, nil, nil)
		if status.Code != model.StatusContested {
			t.Errorf("case %d: expected contested, got %s", i, status.Code)
		}
		if status.Confidence != model.ConfidenceMedium {
			t.Errorf("case %d: expected medium confidence, got %s", i, status.Confidence)
		}
	}
}

func TestClassify_UnknownFoldsIntoNeither(t *testing.T) {
	status := Classify(matches(model.VerdictContradicted, model.VerdictUnknown), nil, nil, nil)
	if status.Code != model.StatusContradicted {
		t.Errorf("unknown verdicts must not dilute the verdict, got %s", status.Code)
	}
}

func TestClassify_CorroborationOnly(t *testing.T) {
	status := Classify(model.FactCheckResult{}, item(model.SourceWikipedia), item(model.SourceWikidata), nil)
	if status.Code != model.StatusUnverified || status.Confidence != model.ConfidenceLow {
		t.Errorf("expected unverified/low, got %s/%s", status.Code, status.Confidence)
	}
	if !strings.Contains(status.Reason, "reference sources") {
		t.Errorf("expected reference-sources reason, got %q", status.Reason)
	}
}

func TestClassify_NothingAtAll(t *testing.T) {
	status := Classify(model.FactCheckResult{}, nil, item(model.SourceWikidata), nil)
	if status.Code != model.StatusUnverified {
		t.Errorf("expected unverified, got %s", status.Code)
	}
	if strings.Contains(status.Reason, "reference sources") {
		t.Errorf("single corroboration source must not claim reference sources: %q", status.Reason)
	}
}

func TestClassify_Idempotent(t *testing.T) {
	fc := matches(model.VerdictSupported, model.VerdictContested)
	wiki := item(model.SourceWikipedia)

	first := Classify(fc, wiki, nil, nil)
	second := Classify(fc, wiki, nil, nil)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("classifier is not idempotent: %+v vs %+v", first, second)
	}
}

func TestClassify_LabelMatchesCode(t *testing.T) {
	status := Classify(matches(model.VerdictContradicted), nil, nil, nil)
	if status.Label != model.StatusContradicted.Label() {
		t.Errorf("label mismatch: %q", status.Label)
	}
}
