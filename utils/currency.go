package utils

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatCurrencyIDR menampilkan nominal dalam format Rupiah untuk tarif
// kamar dan total booking. Contoh: 1250000.5 -> "Rp 1.250.000,50";
// nominal bulat tanpa bagian desimal.
func FormatCurrencyIDR(amount float64) string {
	cents := int64(math.Round(amount * 100))
	intPart := cents / 100
	decPart := cents % 100

	grouped := groupThousands(strconv.FormatInt(intPart, 10))
	if decPart > 0 {
		return fmt.Sprintf("Rp %s,%02d", grouped, decPart)
	}
	return "Rp " + grouped
}

// groupThousands menyisipkan pemisah ribuan gaya Indonesia
func groupThousands(digits string) string {
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(d)
	}
	return b.String()
}
