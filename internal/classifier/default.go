package classifier

// DefaultTable returns the built-in Russian grocery vocabulary. Dairy is
// declared before drinks, so "молоко" always lands in dairy.
func DefaultTable() Table {
	return Table{
		{Name: "Молочные продукты", Keywords: []string{
			"молоко", "сливки", "сметана", "кефир", "творог",
			"йогурт", "масло", "сыр", "ряженка", "простокваша",
		}},
		{Name: "Хлебобулочные изделия", Keywords: []string{
			"хлеб", "батон", "булочка", "багет", "лаваш",
			"круассан", "пирожок", "пончик", "сдоба",
		}},
		{Name: "Овощи", Keywords: []string{
			"картофель", "морковь", "лук", "капуста", "помидор",
			"огурец", "свекла", "перец", "баклажан", "кабачок",
		}},
		{Name: "Фрукты", Keywords: []string{
			"яблоко", "банан", "апельсин", "груша", "виноград",
			"мандарин", "лимон", "киви", "персик", "слива",
		}},
		{Name: "Мясо и птица", Keywords: []string{
			"курица", "говядина", "свинина", "баранина", "индейка",
			"утка", "колбаса", "сосиски", "фарш",
		}},
		{Name: "Рыба и морепродукты", Keywords: []string{
			"лосось", "тунец", "селедка", "креветки", "мидии",
			"кальмар", "краб", "треска", "форель",
		}},
		{Name: "Крупы и макароны", Keywords: []string{
			"рис", "гречка", "овсянка", "перловка", "макароны",
			"спагетти", "лапша", "пшено", "манка",
		}},
		{Name: "Напитки", Keywords: []string{
			"вода", "сок", "чай", "кофе", "газировка",
			"молоко", "квас", "пиво", "вино",
		}},
		{Name: "Сладости", Keywords: []string{
			"конфеты", "шоколад", "печенье", "торт", "пирожное",
			"мороженое", "варенье", "мед", "зефир",
		}},
		{Name: "Консервы", Keywords: []string{
			"тушенка", "рыбные консервы", "компот", "огурцы", "помидоры",
			"грибы", "кукуруза", "горошек",
		}},
	}
}
