package csv2fhir

import "strings"

// lastNumberBounds returns the start and end of the last run of digits in
// s, or (-1, -1) if s contains no digit.
func lastNumberBounds(s string) (int, int) {
	start, end := -1, -1
	for i := len(s) - 1; i >= 0; i-- {
		c := s[i]
		if c >= '0' && c <= '9' {
			if end == -1 {
				end = i + 1
			}
			start = i
		} else if end != -1 {
			break
		}
	}
	return start, end
}

// IncreaseLastNumber returns pid with the last run of digits increased by
// value, preserving zero padding. A pid without digits is returned
// unchanged.
func IncreaseLastNumber(pid string, value int) string {
	start, end := lastNumberBounds(pid)
	if start == -1 {
		return pid
	}
	numberPart := pid[start:end]
	width := len(numberPart)

	var n int64
	for i := 0; i < width; i++ {
		n = n*10 + int64(numberPart[i]-'0')
	}
	n += int64(value)

	increased := formatInt(n)
	for len(increased) < width {
		increased = "0" + increased
	}
	return pid[:start] + increased + pid[end:]
}

func formatInt(n int64) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// FullPID applies the configured patient id transform: the initial offset
// on the trailing number, then prefix and suffix. Underscores are replaced
// because some FHIR servers reject ids containing them.
func (o *Options) FullPID(pid string) string {
	if o.PIDLastNumberIncrease > 0 {
		pid = IncreaseLastNumber(pid, o.PIDLastNumberIncrease)
	}
	pid = o.PIDPrefix + pid + o.PIDSuffix
	return strings.ReplaceAll(pid, "_", "-")
}
