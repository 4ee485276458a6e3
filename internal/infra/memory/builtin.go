package memory

import "probability-quiz-service/internal/domain"

// ProbabilityCatalog is the built-in question set.
func ProbabilityCatalog() domain.Catalog {
	return domain.Catalog{
		ID:    "probability",
		Title: "Тест по теории вероятностей",
		Questions: []domain.Question{
			{
				ID:            1,
				Category:      "Классическая формула",
				Prompt:        "На семинар приехали 6 учёных из Норвегии, 5 из России и 9 из Испании. Каждый учёный подготовил один доклад. Порядок докладов определяется случайным образом. Найдите вероятность того, что восьмым окажется доклад учёного из России.",
				Options:       []string{"0.15", "0.25", "0.30", "0.40"},
				CorrectAnswer: 1,
				Explanation:   "Всего учёных: 6 + 5 + 9 = 20. Вероятность = 5/20 = 0.25",
			},
			{
				ID:            2,
				Category:      "Комбинаторика",
				Prompt:        "В урне 6 белых и 4 чёрных шара. Из урны наугад извлекают один шар с возвращением. Какова вероятность, что белый шар будет вынут при первом извлечении?",
				Options:       []string{"0.4", "0.5", "0.6", "0.7"},
				CorrectAnswer: 2,
				Explanation:   "Всего шаров: 6 + 4 = 10. Вероятность белого шара = 6/10 = 0.6",
			},
			{
				ID:            3,
				Category:      "Условная вероятность",
				Prompt:        "В проекте участвуют 7 девушек и 3 юноши. Для выступления случайным образом выбирают докладчика и содокладчика. Найдите вероятность, что докладчиком будет выбрана девушка, а содокладчиком — юноша.",
				Options:       []string{"0.17", "0.23", "0.30", "0.35"},
				CorrectAnswer: 1,
				Explanation:   "P(девушка, затем юноша) = (7/10) × (3/9) = 21/90 ≈ 0.23",
			},
		},
	}
}

// BuiltinCatalogs maps catalog IDs to the catalogs compiled into the binary.
func BuiltinCatalogs() map[string]domain.Catalog {
	c := ProbabilityCatalog()
	return map[string]domain.Catalog{c.ID: c}
}
