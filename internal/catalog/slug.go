package catalog

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// foldTurkish: Türkçe karakterleri ASCII karşılıklarına çevirir
// Örn: "Çalışma Masası" -> "calisma masasi"
func foldTurkish(s string) string {
	replacements := map[rune]string{
		'ç': "c", 'Ç': "c",
		'ğ': "g", 'Ğ': "g",
		'ı': "i", 'İ': "i",
		'ö': "o", 'Ö': "o",
		'ş': "s", 'Ş': "s",
		'ü': "u", 'Ü': "u",
	}

	// Önce harita, sonra küçültme: 'İ' gibi harfler Unicode küçültmeye kalmaz
	var result strings.Builder
	for _, r := range s {
		if replacement, ok := replacements[r]; ok {
			result.WriteString(replacement)
		} else {
			result.WriteRune(r)
		}
	}
	return strings.ToLower(result.String())
}

// Slugify: isimden URL uyumlu slug üretir
// Örn: "Çalışma Masası 120cm" -> "calisma-masasi-120cm"
func Slugify(name string) string {
	folded := foldTurkish(strings.TrimSpace(name))

	var b strings.Builder
	lastDash := true // baştaki tireleri engelle
	for _, r := range folded {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteRune('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// uniqueSlug: slug çakışırsa -2, -3 ... ekleyerek benzersiz hale getirir.
// model: slug kolonu olan tablo (örn: &models.Product{})
func uniqueSlug(db *gorm.DB, model interface{}, base string) string {
	slug := base
	for i := 2; ; i++ {
		var count int64
		db.Model(model).Where("slug = ?", slug).Count(&count)
		if count == 0 {
			return slug
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}
