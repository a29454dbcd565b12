package trapgen

import "strconv"

// AnalyzeMistake gives a one-line diagnosis of a wrong answer. Numeric
// answers that are off by exactly a factor of ten are reported as a
// magnitude trap.
func AnalyzeMistake(wrongAnswer, correctAnswer string) string {
	if wrongAnswer == "" || correctAnswer == "" {
		return "Analysis: Check if you fell for a common misconception."
	}
	w, errW := strconv.ParseFloat(wrongAnswer, 64)
	c, errC := strconv.ParseFloat(correctAnswer, 64)
	if errW == nil && errC == nil && (w == c*10 || w == c/10) {
		return "Analyzed: Use of correct digits but wrong magnitude (Order of Magnitude Trap)."
	}
	return "Analyzed: This looks like a fundamental misunderstanding of the concept."
}
