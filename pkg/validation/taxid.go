package validation

// ValidCPF reports whether raw holds a CPF with correct check digits. Mask
// characters (dots, dashes, slashes and spaces) are ignored; any other
// character or a repeated digit sequence is rejected.
func ValidCPF(raw string) bool {
	digits := onlyDigits(raw)
	if len(digits) != 11 || repeated(digits) {
		return false
	}
	for _, pos := range []int{9, 10} {
		sum := 0
		for i := 0; i < pos; i++ {
			sum += digits[i] * (pos + 1 - i)
		}
		check := sum * 10 % 11
		if check == 10 {
			check = 0
		}
		if check != digits[pos] {
			return false
		}
	}
	return true
}

var (
	cnpjFirstWeights  = []int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	cnpjSecondWeights = []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
)

// ValidCNPJ reports whether raw holds a CNPJ with correct check digits.
func ValidCNPJ(raw string) bool {
	digits := onlyDigits(raw)
	if len(digits) != 14 || repeated(digits) {
		return false
	}
	for i, weights := range [][]int{cnpjFirstWeights, cnpjSecondWeights} {
		sum := 0
		for j, w := range weights {
			sum += digits[j] * w
		}
		check := 0
		if r := sum % 11; r >= 2 {
			check = 11 - r
		}
		if check != digits[12+i] {
			return false
		}
	}
	return true
}

// onlyDigits strips mask characters. It returns nil when raw holds anything
// else.
func onlyDigits(raw string) []int {
	out := make([]int, 0, len(raw))
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			out = append(out, int(r-'0'))
		case r == '.' || r == '-' || r == '/' || r == ' ':
		default:
			return nil
		}
	}
	return out
}

func repeated(digits []int) bool {
	for _, d := range digits[1:] {
		if d != digits[0] {
			return false
		}
	}
	return true
}
