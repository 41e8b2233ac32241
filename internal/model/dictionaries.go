package model

// Regions offered by the filter form.
var Regions = []string{
	"Алтайский край",
	"Амурская область",
	"Архангельская область",
	"Астраханская область",
	"Белгородская область",
	"Брянская область",
	"Владимирская область",
	"Волгоградская область",
	"Вологодская область",
	"Воронежская область",
	"Еврейская автономная область",
	"Забайкальский край",
	"Ивановская область",
	"Иркутская область",
	"Кабардино-Балкарская Республика",
	"Калининградская область",
	"Калужская область",
	"Камчатский край",
	"Карачаево-Черкесская Республика",
	"Кемеровская область",
	"Кировская область",
	"Костромская область",
	"Краснодарский край",
	"Красноярский край",
	"Курганская область",
	"Курская область",
	"Ленинградская область",
	"Липецкая область",
	"Магаданская область",
	"Московская область",
	"Мурманская область",
	"Ненецкий автономный округ",
	"Нижегородская область",
	"Новгородская область",
	"Новосибирская область",
	"Омская область",
	"Оренбургская область",
	"Орловская область",
	"Пензенская область",
	"Пермский край",
	"Приморский край",
	"Псковская область",
	"Республика Адыгея",
	"Республика Алтай",
	"Республика Башкортостан",
	"Республика Бурятия",
	"Республика Дагестан",
	"Республика Ингушетия",
	"Республика Калмыкия",
	"Республика Карелия",
	"Республика Коми",
	"Республика Крым",
	"Республика Марий Эл",
	"Республика Мордовия",
	"Республика Саха (Якутия)",
	"Республика Северная Осетия - Алания",
	"Республика Татарстан",
	"Республика Тыва",
	"Республика Хакасия",
	"Ростовская область",
	"Рязанская область",
	"Самарская область",
	"Саратовская область",
	"Сахалинская область",
	"Свердловская область",
	"Севастополь",
	"Смоленская область",
	"Ставропольский край",
	"Тамбовская область",
	"Тверская область",
	"Томская область",
	"Тульская область",
	"Тюменская область",
	"Удмуртская Республика",
	"Ульяновская область",
	"Хабаровский край",
	"Ханты-Мансийский автономный округ - Югра",
	"Челябинская область",
	"Чеченская Республика",
	"Чувашская Республика",
	"Чукотский автономный округ",
	"Ямало-Ненецкий автономный округ",
	"Ярославская область",
	"Москва",
	"Санкт-Петербург",
}

// Statuses as published by the auction site.
var Statuses = []string{
	"Прием заявок",
	"Публикация",
	"Аукцион проведен",
	"Отменен",
	"Закрыт",
}

// LotTypes as published by the auction site.
var LotTypes = []string{
	"Электронный аукцион",
	"Открытый аукцион",
	"Публичное предложение",
	"Конкурс",
}
