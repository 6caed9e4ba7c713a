package verify

import (
	"fmt"

	"github.com/okulov/attestor/internal/model"
)

// Classify reduces fact-check verdicts and corroboration counts to one
// verdict. Pure and deterministic: it is re-run from scratch whenever the
// evidence sets change, never incrementally patched.
func Classify(factChecks model.FactCheckResult, wikipedia, wikidata, pubmed []model.CorroborationItem) model.VerificationStatus {
	var supported, contradicted, contested int
	for _, m := range factChecks.Matches {
		switch m.Verdict {
		case model.VerdictSupported:
			supported++
		case model.VerdictContradicted:
			contradicted++
		case model.VerdictContested:
			contested++
		}
		// unknown folds into neither numerator
	}

	switch {
	case contradicted > 0 && supported == 0 && contested == 0:
		return status(model.StatusContradicted, model.ConfidenceHigh,
			fmt.Sprintf("%d independent fact-check review(s) rate this claim false or misleading", contradicted))

	case supported > 0 && contradicted == 0 && contested == 0:
		return status(model.StatusSupported, model.ConfidenceHigh,
			fmt.Sprintf("%d independent fact-check review(s) rate this claim accurate", supported))

	case supported+contradicted+contested > 0:
		return status(model.StatusContested, model.ConfidenceMedium,
			fmt.Sprintf("fact-check reviews disagree (supported=%d contradicted=%d contested=%d)",
				supported, contradicted, contested))
	}

	sources := 0
	if len(wikipedia) > 0 {
		sources++
	}
	if len(wikidata) > 0 {
		sources++
	}
	if len(pubmed) > 0 {
		sources++
	}

	if sources >= 2 {
		return status(model.StatusUnverified, model.ConfidenceLow,
			"no fact-check reviews matched; reference sources provided for manual review")
	}
	return status(model.StatusUnverified, model.ConfidenceLow,
		"no matching fact-check reviews or corroborating sources found")
}

func status(code model.StatusCode, confidence model.ConfidenceTier, reason string) model.VerificationStatus {
	return model.VerificationStatus{
		Code:       code,
		Label:      code.Label(),
		Reason:     reason,
		Confidence: confidence,
	}
}
