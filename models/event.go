// File: models/event.go
package models

// ----------------------- event model -----------------------

// EventInfo is the static content shown on the landing page.
type EventInfo struct {
	Title      string   `json:"title"`      // Headline, e.g. "FASHION WEEK"
	Year       string   `json:"year"`       // Highlighted edition year
	Tagline    string   `json:"tagline"`    // Hero subtitle
	About      []string `json:"about"`      // "About the event" paragraphs
	Highlights []string `json:"highlights"` // Short programme bullets
	HeroImage  string   `json:"heroImage"`  // Background image URL
	Gallery    []string `json:"gallery"`    // Secondary image URLs

	Schedule     []ScheduleDay `json:"schedule"`
	Registration string        `json:"registration"` // Event name used on the registration page
}

// ScheduleDay is one block of the programme.
type ScheduleDay struct {
	Days        string `json:"days"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
}

// DefaultEvent returns the content of the current edition.
func DefaultEvent() EventInfo {
	return EventInfo{
		Title:   "FASHION WEEK",
		Year:    "2025",
		Tagline: "Эксклюзивное модное событие года, где талантливые дизайнеры представят свои новые коллекции",
		About: []string{
			"Fashion Week 2025 — это масштабное событие, объединяющее именитых и начинающих дизайнеров, модельеров, стилистов и всех ценителей высокой моды.",
			"В течение недели гости смогут увидеть показы новых коллекций, посетить мастер-классы, встретиться с экспертами индустрии и погрузиться в уникальную атмосферу моды.",
		},
		Highlights: []string{"Показы коллекций", "Мастер-классы", "Встречи с экспертами"},
		HeroImage:  "https://images.unsplash.com/photo-1529139574466-a303027c1d8b?auto=format&fit=crop&w=2070&q=80",
		Gallery: []string{
			"https://images.unsplash.com/photo-1605289355680-75fb41239154?auto=format&fit=crop&w=1974&q=80",
			"https://images.unsplash.com/photo-1537832816519-689ad163238b?auto=format&fit=crop&w=2059&q=80",
		},
		Schedule: []ScheduleDay{
			{
				Days:        "День 1",
				Title:       "Открытие",
				Description: "Торжественное открытие недели моды, показы ведущих дизайнеров и праздничный коктейль.",
				Date:        "25 Мая, 2025",
			},
			{
				Days:        "День 2-4",
				Title:       "Основная программа",
				Description: "Показы коллекций, мастер-классы, лекции от экспертов индустрии моды.",
				Date:        "26-28 Мая, 2025",
			},
			{
				Days:        "День 5",
				Title:       "Закрытие",
				Description: "Финальный показ, награждение участников и праздничный гала-ужин.",
				Date:        "29 Мая, 2025",
			},
		},
		Registration: "Fashion in Motion 2025",
	}
}
