package scoring

import "github.com/kexportlab/tradematch-api/internal/models"

// Exclusion reason codes shared across the gates.
const (
	ReasonMOQBuyerTooSmall  = "MOQ_BUYER_TOO_SMALL"
	ReasonMOQSellerTooLarge = "MOQ_SELLER_TOO_LARGE"
	ReasonMOVExceedsBudget  = "MOV_EXCEEDS_BUDGET"
	ReasonMissingCerts      = "MISSING_REQUIRED_CERTS"
	ReasonCountryBlocked    = "COUNTRY_BLOCKED"
	ReasonCountryMismatch   = "COUNTRY_MISMATCH"
)

// MOQMOVResult is the outcome of the order-quantity/value compatibility
// evaluation between one seller and one buyer.
type MOQMOVResult struct {
	MOQGatePassed bool     `json:"moq_gate_passed"`
	MOVGatePassed bool     `json:"mov_gate_passed"`
	MOQRatio      float64  `json:"moq_ratio"`
	MOQScore      float64  `json:"moq_score"`
	MOVScore      float64  `json:"mov_score"`
	MOQFinalScore float64  `json:"moq_final_score"`
	OrderValueUSD float64  `json:"order_value_usd"`
	Reasons       []string `json:"reasons,omitempty"`
}

// GatePassed reports whether both hard gates held.
func (r MOQMOVResult) GatePassed() bool {
	return r.MOQGatePassed && r.MOVGatePassed
}

// EvaluateMOQMOV runs the MOQ hard gate, the MOV gate, and the soft scores.
// The MOQ gate is evaluated first and short-circuits: a rejected pair gets
// no soft scores and no final contribution.
func EvaluateMOQMOV(seller models.SellerProfile, buyer models.BuyerProfile, cfg Config) MOQMOVResult {
	res := MOQMOVResult{}

	ratio := float64(buyer.MOQ) / float64(seller.MOQ)
	res.MOQRatio = ratio

	switch {
	case ratio < cfg.MOQRatioMin:
		res.Reasons = append(res.Reasons, ReasonMOQBuyerTooSmall)
		return res
	case ratio > cfg.MOQRatioMax:
		res.Reasons = append(res.Reasons, ReasonMOQSellerTooLarge)
		return res
	}
	res.MOQGatePassed = true
	res.MOQScore = moqSoftScore(ratio)

	// MOV: the seller's monetary order floor against the buyer's budget band.
	mov := float64(seller.MOQ) * seller.PriceMin
	budgetMin := float64(buyer.MOQ) * buyer.PriceMin
	budgetMax := float64(buyer.MOQ) * buyer.PriceMax
	res.OrderValueUSD = mov

	switch {
	case mov <= budgetMin:
		res.MOVGatePassed = true
		res.MOVScore = 1.0
	case mov <= budgetMax:
		res.MOVGatePassed = true
		res.MOVScore = 1.0 - cfg.MOVPartialSlope*(mov-budgetMin)/(budgetMax-budgetMin)
	default:
		res.MOVScore = 0
		res.Reasons = append(res.Reasons, ReasonMOVExceedsBudget)
		return res
	}

	res.MOQFinalScore = (res.MOQScore*cfg.MOQWeight + res.MOVScore*cfg.MOVWeight) * cfg.MOQMOVScale
	return res
}

// moqSoftScore is piecewise-linear in the buyer/seller MOQ ratio. Ratios
// below the gate threshold map to 0 in case a caller skips the gate.
func moqSoftScore(ratio float64) float64 {
	switch {
	case ratio >= 1.0:
		return 1.0
	case ratio >= 0.8:
		return 0.8 + (ratio-0.8)*1.0
	case ratio >= 0.5:
		return 0.4 + (ratio-0.5)*(0.4/0.3)
	case ratio >= 0.3:
		return (ratio - 0.3) * (0.4 / 0.2)
	default:
		return 0
	}
}
