// Package analyze implements the skin, age, expression and facial feature
// heuristics. Every function is a pure function of its inputs: identical
// images and landmarks always produce identical scores. No score is ever
// synthesized from randomness.
package analyze

import (
	"face-analysis/internal/pkg/imgstat"
	"face-analysis/internal/pkg/model/analysis_model"
	"fmt"
	"image"
	"math"
)

// AnalyzeSkin computes the HD skin parameters, tone, type and overall
// health for an image. Landmarks, when present, locate the under-eye
// regions for the dark circle and eye bag parameters.
func AnalyzeSkin(img image.Image, landmarks *analysis_model.FaceLandmarks) *analysis_model.SkinAnalysis {
	mask := imgstat.SkinMask(img)
	gray := imgstat.FromImage(img)

	skinArea := mask.Count()
	if skinArea == 0 {
		return defaultSkinAnalysis()
	}

	meanR, meanG, meanB, _ := imgstat.MeanRGB(img, mask)
	maskedMean, maskedStd := gray.MaskedMean(mask)

	uniformity := clamp01(1 - maskedStd/64)
	sobelMean := gray.SobelMean()

	// Texture and oiliness follow from surface roughness and shine.
	roughness := clamp01(sobelMean / 100)
	textureScore := 1 - roughness
	oiliness := clamp01((maskedMean / 128) * (1 - uniformity))

	moisture := clamp01((maskedMean / 128) * uniformity)
	radiance := clamp01((maskedMean / 128) * uniformity)
	firmness := clamp01(uniformity * (1 - sobelMean/100))

	redness := rednessScore(meanR, meanG, meanB)
	ageSpots := darkFractionScore(gray, mask, maskedMean-1.5*maskedStd, 10)
	acne := acneScore(img, gray, mask, maskedMean)
	pores := poreScore(gray, mask, maskedMean)
	wrinkles := clamp01(gray.LaplacianVar() / 500)

	darkCircle, eyeBag := underEyeScores(gray, landmarks, maskedMean)

	tone := skinTone(meanR, meanG, meanB)
	skinType := classifySkinType(oiliness, moisture, pores, acne)

	overall := overallHealth(roughness, pores, wrinkles, acne, moisture, radiance)

	return &analysis_model.SkinAnalysis{
		HDRedness:    skinParameter(redness, 0.8),
		HDOiliness:   skinParameter(oiliness, 0.8),
		HDAgeSpot:    skinParameter(ageSpots, 0.7),
		HDRadiance:   skinParameter(radiance, 0.8),
		HDMoisture:   skinParameter(moisture, 0.8),
		HDDarkCircle: skinParameter(darkCircle, underEyeConfidence(landmarks)),
		HDEyeBag:     skinParameter(eyeBag, underEyeConfidence(landmarks)),
		HDFirmness:   skinParameter(firmness, 0.7),
		HDTexture:    skinParameter(textureScore, 0.8),
		HDAcne:       skinParameter(acne, 0.7),
		HDPore:       skinParameter(pores, 0.7),
		HDWrinkle:    skinParameter(wrinkles, 0.7),

		SkinTone:              tone,
		SkinType:              skinType,
		OverallHealth:         overall,
		RecommendedTreatments: recommendations(roughness, pores, wrinkles, acne, moisture, radiance),
	}
}

// skinParameter buckets a raw 0-1 score into the standard parameter shape.
func skinParameter(raw, confidence float64) analysis_model.SkinParameter {
	raw = clamp01(raw)
	ui := math.Round(raw*1000) / 10

	severity := analysis_model.SeverityMedium
	switch {
	case ui < 30:
		severity = analysis_model.SeverityLow
	case ui >= 70:
		severity = analysis_model.SeverityHigh
	}

	return analysis_model.SkinParameter{
		RawScore:       math.Round(raw*1000) / 1000,
		UIScore:        ui,
		Severity:       severity,
		AreaPercentage: ui,
		Confidence:     confidence,
	}
}

// rednessScore measures red channel dominance over green and blue.
func rednessScore(r, g, b float64) float64 {
	dominance := r / (g + b + 1e-7)
	return clamp01((dominance - 0.8) * 5)
}

// darkFractionScore scores the fraction of masked pixels darker than the
// threshold, scaled for visibility.
func darkFractionScore(gray *imgstat.Gray, mask *imgstat.Mask, threshold, scale float64) float64 {
	var dark, total int
	for i, on := range mask.Bits {
		if !on {
			continue
		}
		total++
		if gray.Pix[i] < threshold {
			dark++
		}
	}
	if total == 0 {
		return 0
	}
	return clamp01(float64(dark) / float64(total) * scale)
}

// acneScore combines inflamed red pixels and post-inflammatory dark spots.
func acneScore(img image.Image, gray *imgstat.Gray, mask *imgstat.Mask, maskedMean float64) float64 {
	bounds := img.Bounds()
	w := bounds.Dx()

	var affected, total int
	for y := 0; y < mask.Height; y++ {
		for x := 0; x < mask.Width; x++ {
			i := y*w + x
			if !mask.Bits[i] {
				continue
			}
			total++

			r16, g16, b16, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			r := float64(r16 >> 8)
			g := float64(g16 >> 8)
			b := float64(b16 >> 8)

			inflamed := r > g+40 && r > b+40
			darkSpot := gray.Pix[i] < maskedMean-20

			if inflamed || darkSpot {
				affected++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return clamp01(float64(affected) / float64(total) * 10)
}

// poreScore scores small bright texture details against the local mean.
func poreScore(gray *imgstat.Gray, mask *imgstat.Mask, maskedMean float64) float64 {
	var pores, total int
	for i, on := range mask.Bits {
		if !on {
			continue
		}
		total++
		if gray.Pix[i] > maskedMean+20 {
			pores++
		}
	}
	if total == 0 {
		return 0
	}
	return clamp01(float64(pores) / float64(total) * 20)
}

// underEyeScores measures darkness and texture below each eye landmark
// relative to the overall face brightness. Without eye landmarks both
// scores stay at zero.
func underEyeScores(gray *imgstat.Gray, landmarks *analysis_model.FaceLandmarks, faceMean float64) (darkCircle, eyeBag float64) {
	if landmarks == nil {
		return 0, 0
	}

	eyes := append(append([]analysis_model.Point{},
		landmarks.Region(analysis_model.RegionLeftEye)...),
		landmarks.Region(analysis_model.RegionRightEye)...)
	if len(eyes) == 0 {
		return 0, 0
	}

	regionW := gray.Width / 8
	regionH := gray.Height / 12
	if regionW < 2 || regionH < 2 {
		return 0, 0
	}

	var darkSum, bagSum float64
	var n int
	for _, eye := range eyes {
		x := int(eye.X)
		y := int(eye.Y)

		region := gray.Crop(x-regionW/2, y, x+regionW/2, y+regionH)
		if len(region.Pix) == 0 {
			continue
		}

		darkSum += clamp01((faceMean - region.Mean()) / 64)
		bagSum += clamp01(region.SobelMean() / 80)
		n++
	}

	if n == 0 {
		return 0, 0
	}
	return darkSum / float64(n), bagSum / float64(n)
}

func underEyeConfidence(landmarks *analysis_model.FaceLandmarks) float64 {
	if landmarks == nil {
		return 0
	}
	if len(landmarks.LeftEye)+len(landmarks.RightEye) == 0 {
		return 0
	}
	return 0.7
}

// skinTone classifies the dominant skin color.
func skinTone(r, g, b float64) analysis_model.SkinTone {
	undertone := analysis_model.UndertoneNeutral
	if r > g && r > b {
		undertone = analysis_model.UndertoneWarm
	} else if b > r && b > g {
		undertone = analysis_model.UndertoneCool
	}

	brightness := (r + g + b) / 3
	category := "Light"
	switch {
	case brightness < 100:
		category = "Deep"
	case brightness < 150:
		category = "Medium"
	case brightness < 200:
		category = "Fair"
	}

	ri, gi, bi := int(r), int(g), int(b)

	return analysis_model.SkinTone{
		Category:  category,
		Hex:       fmt.Sprintf("#%02X%02X%02X", ri, gi, bi),
		RGB:       analysis_model.RGB{R: ri, G: gi, B: bi},
		Undertone: undertone,
	}
}

// classifySkinType applies the canonical thresholds to the measured scores.
func classifySkinType(oiliness, moisture, pores, acne float64) analysis_model.SkinType {
	switch {
	case oiliness > 0.7 && pores > 0.6:
		return analysis_model.SkinTypeOily
	case moisture < 0.3 && oiliness < 0.3:
		return analysis_model.SkinTypeDry
	case oiliness > 0.5 && moisture < 0.4:
		return analysis_model.SkinTypeCombination
	case acne > 0.5 || oiliness > 0.6:
		return analysis_model.SkinTypeSensitive
	default:
		return analysis_model.SkinTypeNormal
	}
}

// overallHealth is the weighted combination of the measured factors,
// higher is better.
func overallHealth(roughness, pores, wrinkles, acne, moisture, radiance float64) float64 {
	score := (1-roughness)*0.2 +
		(1-pores)*0.15 +
		(1-wrinkles)*0.15 +
		(1-acne)*0.15 +
		moisture*0.15 +
		radiance*0.2
	return math.Round(score*1000) / 1000
}

// recommendations maps measured scores to treatment suggestions. Sunscreen
// is always included.
func recommendations(roughness, pores, wrinkles, acne, moisture, radiance float64) []string {
	var recs []string

	if moisture < 0.4 {
		recs = append(recs, "Use a hydrating moisturizer with hyaluronic acid")
	}
	if roughness > 0.6 {
		recs = append(recs, "Consider gentle exfoliation with AHA/BHA")
	}
	if pores > 0.6 {
		recs = append(recs, "Use products with niacinamide to minimize pore appearance")
	}
	if wrinkles > 0.5 {
		recs = append(recs, "Consider retinol or peptide-based anti-aging products")
	}
	if acne > 0.4 {
		recs = append(recs, "Use salicylic acid or benzoyl peroxide for acne treatment")
	}
	if radiance < 0.4 {
		recs = append(recs, "Try vitamin C serum for improved radiance")
	}

	recs = append(recs, "Always use broad-spectrum SPF 30+ sunscreen")
	return recs
}

// defaultSkinAnalysis is returned when no skin region can be segmented.
func defaultSkinAnalysis() *analysis_model.SkinAnalysis {
	defaultParam := analysis_model.SkinParameter{
		RawScore:       0.5,
		UIScore:        50,
		Severity:       analysis_model.SeverityMedium,
		AreaPercentage: 50,
		Confidence:     0,
	}

	return &analysis_model.SkinAnalysis{
		HDRedness:    defaultParam,
		HDOiliness:   defaultParam,
		HDAgeSpot:    defaultParam,
		HDRadiance:   defaultParam,
		HDMoisture:   defaultParam,
		HDDarkCircle: defaultParam,
		HDEyeBag:     defaultParam,
		HDFirmness:   defaultParam,
		HDTexture:    defaultParam,
		HDAcne:       defaultParam,
		HDPore:       defaultParam,
		HDWrinkle:    defaultParam,
		SkinTone: analysis_model.SkinTone{
			Category:  "Medium",
			Hex:       "#C8A882",
			RGB:       analysis_model.RGB{R: 200, G: 168, B: 130},
			Undertone: analysis_model.UndertoneNeutral,
		},
		SkinType:              analysis_model.SkinTypeNormal,
		OverallHealth:         0.5,
		RecommendedTreatments: []string{"Maintain current skincare routine"},
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
