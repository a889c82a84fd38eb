package aggregate

import "golang.org/x/text/language"

// Locale menyimpan teks yang bergantung bahasa untuk label dashboard
type Locale struct {
	Tag        language.Tag
	JustNow    string
	MinutesAgo string
	HoursAgo   string
	DateLayout string
	OtherLabel string
	LoginFrom  string
	Grades     [3]string
	Cards      [4]string
}

var (
	Indonesian = Locale{
		Tag:        language.Indonesian,
		JustNow:    "Baru saja",
		MinutesAgo: "%d menit yang lalu",
		HoursAgo:   "%d jam yang lalu",
		DateLayout: "2/1/2006",
		OtherLabel: LainnyaLabel,
		LoginFrom:  "Login berhasil dari %s",
		Grades:     [3]string{"Kelas 10", "Kelas 11", "Kelas 12"},
		Cards:      [4]string{"Total Siswa", "Total Guru", "User Online", "Total Kelas"},
	}
	English = Locale{
		Tag:        language.English,
		JustNow:    "just now",
		MinutesAgo: "%d minutes ago",
		HoursAgo:   "%d hours ago",
		DateLayout: "1/2/2006",
		OtherLabel: OtherLabel,
		LoginFrom:  "Successful login from %s",
		Grades:     [3]string{"Grade 10", "Grade 11", "Grade 12"},
		Cards:      [4]string{"Total Students", "Total Teachers", "Online Users", "Total Classes"},
	}
)

// urutan harus sama dengan argumen NewMatcher
var supportedLocales = []Locale{Indonesian, English}

var localeMatcher = language.NewMatcher([]language.Tag{language.Indonesian, language.English})

// LocaleFor memilih locale dari tag bahasa atau header Accept-Language.
// Kalau tidak ada yang cocok, Indonesian dipakai.
func LocaleFor(accept string) Locale {
	tags, _, err := language.ParseAcceptLanguage(accept)
	if err != nil || len(tags) == 0 {
		return Indonesian
	}
	_, idx, conf := localeMatcher.Match(tags...)
	if conf == language.No || idx < 0 || idx >= len(supportedLocales) {
		return Indonesian
	}
	return supportedLocales[idx]
}
