package crawler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tableHTML = `<html><body>
<table>
	<tr><th>Лот</th><th>Регион</th><th>Цена</th><th>Статус</th><th>Срок</th></tr>
	<tr>
		<td><a href="/new/public/lots/lot/21000012340000000001_1">Земельный участок 10 га</a></td>
		<td>Тверская область</td>
		<td>1 200 000 ₽</td>
		<td>Прием заявок</td>
		<td>до 20.05.2025</td>
	</tr>
	<tr>
		<td><a href="/new/public/lots/lot/21000012340000000002_1">Гараж</a></td>
		<td>Республика Карелия</td>
		<td>300 000 руб.</td>
		<td>Закрыт</td>
		<td>01.03.2025</td>
	</tr>
	<tr><td>короткая</td><td><a href="/new/public/lots/lot/21000012340000000003_1">строка</a></td></tr>
	<tr><td>без</td><td>ссылки</td><td>1 ₽</td><td>Закрыт</td><td>01.01.2025</td></tr>
</table>
</body></html>`

func TestTableStrategy(t *testing.T) {
	page := newTestPage(NewMockFetcher().Serve(testBaseURL, tableHTML), testBaseURL)

	lots, err := (&TableStrategy{}).Extract(context.Background(), page)
	require.NoError(t, err)
	require.Len(t, lots, 2)

	assert.Equal(t, "21000012340000000001", lots[0].LotNumber)
	assert.Equal(t, "Земельный участок 10 га", lots[0].Title)
	assert.Equal(t, "Тверская область", lots[0].Region)
	assert.Equal(t, "Прием заявок", lots[0].Status)
	assert.Equal(t, "20.05.2025", lots[0].ApplicationDeadline)
	assert.Equal(t, 1200000.0, *lots[0].InitialPrice)
	assert.Equal(t, "https://torgi.gov.ru/new/public/lots/lot/21000012340000000001_1", lots[0].LotURL)

	assert.Equal(t, "21000012340000000002", lots[1].LotNumber)
	assert.Equal(t, "Республика Карелия", lots[1].Region)
	assert.Equal(t, 300000.0, *lots[1].InitialPrice)
}

func TestTableStrategyWithoutTable(t *testing.T) {
	page := newTestPage(NewMockFetcher().Serve(testBaseURL, "<html><body><div>пусто</div></body></html>"), testBaseURL)

	lots, err := (&TableStrategy{}).Extract(context.Background(), page)
	require.NoError(t, err)
	assert.Empty(t, lots)
}

func TestTableStrategyFetchError(t *testing.T) {
	page := newTestPage(NewMockFetcher(), testBaseURL)

	_, err := (&TableStrategy{}).Extract(context.Background(), page)
	assert.Error(t, err)
}

const cardHTML = `<html><body>
<nav><ul><li class="menu"><a href="/about">О портале</a></li></ul></nav>
<section class="results">
	<article class="LotCard">
		<a href="/new/public/lots/lot/23000045670000000001_2">Квартира 54 м²</a>
		<span>Свердловская область</span>
		<span>Начальная цена</span>
		<span>4 100 000 ₽</span>
		<p>Публикация</p>
		<p>Подача до 11.07.2025</p>
	</article>
	<div class="lot-item">
		<a href="/new/public/lots/lot/23000045670000000002_1">Нежилое здание</a>
		<span>Пермский край</span>
		<span>12 000 000 ₽</span>
		<span>11 500 000 ₽</span>
	</div>
	<div class="lot-item">
		<a href="/new/public/lots/lot/23000045670000000002_1">Нежилое здание</a>
		<span>Пермский край</span>
		<span>12 000 000 ₽</span>
		<span>11 000 000 ₽</span>
	</div>
</section>
</body></html>`

func TestCardStrategy(t *testing.T) {
	page := newTestPage(NewMockFetcher().Serve(testBaseURL, cardHTML), testBaseURL)

	lots, err := (&CardStrategy{}).Extract(context.Background(), page)
	require.NoError(t, err)
	require.Len(t, lots, 2)

	first := lots[0]
	assert.Equal(t, "23000045670000000001", first.LotNumber)
	assert.Equal(t, "Квартира 54 м²", first.Title)
	assert.Equal(t, "Свердловская область", first.Region)
	assert.Equal(t, "Публикация", first.Status)
	assert.Equal(t, "11.07.2025", first.ApplicationDeadline)
	assert.Equal(t, 4100000.0, *first.InitialPrice)

	second := lots[1]
	assert.Equal(t, "23000045670000000002", second.LotNumber)
	assert.Equal(t, "Пермский край", second.Region)
	assert.Equal(t, 12000000.0, *second.InitialPrice)
	assert.Equal(t, 11000000.0, *second.CurrentPrice)
}

const nestedCardHTML = `<html><body>
<div class="row">
	<div class="lot-card">
		<a href="/new/public/lots/lot/22000033330000000001_1">Гараж</a>
		<span>Московская область</span>
		<span>1 000 ₽</span>
		<span>2 000 ₽</span>
		<span>Прием заявок</span>
	</div>
</div>
</body></html>`

func TestCardStrategyNestedWrapperKeepsInnerCard(t *testing.T) {
	page := newTestPage(NewMockFetcher().Serve(testBaseURL, nestedCardHTML), testBaseURL)

	lots, err := (&CardStrategy{}).Extract(context.Background(), page)
	require.NoError(t, err)
	require.Len(t, lots, 1)

	lot := lots[0]
	assert.Equal(t, "22000033330000000001", lot.LotNumber)
	assert.Equal(t, "Гараж", lot.Title)
	assert.Equal(t, "Московская область", lot.Region)
	assert.Equal(t, "Прием заявок", lot.Status)
	assert.Equal(t, 1000.0, *lot.InitialPrice)
	assert.Equal(t, 2000.0, *lot.CurrentPrice)
}

const inlineJSONHTML = `<html><body>
<script type="application/json">{"config": true}</script>
<script type="application/json">[
	{"id": "24000011110000000001", "title": "Автомобиль", "startPrice": 650000, "statusName": "Прием заявок", "link": "/new/public/lots/lot/24000011110000000001_1"},
	{"number": "24000011110000000002", "name": "Трактор", "price": "1 000 000"},
	"not an object"
]</script>
</body></html>`

func TestInlineJSONStrategy(t *testing.T) {
	page := newTestPage(NewMockFetcher().Serve(testBaseURL, inlineJSONHTML), testBaseURL)

	lots, err := (&InlineJSONStrategy{}).Extract(context.Background(), page)
	require.NoError(t, err)
	require.Len(t, lots, 2)

	assert.Equal(t, "24000011110000000001", lots[0].LotNumber)
	assert.Equal(t, "Автомобиль", lots[0].Title)
	assert.Equal(t, 650000.0, *lots[0].InitialPrice)
	assert.Equal(t, "Прием заявок", lots[0].Status)
	assert.Equal(t, "https://torgi.gov.ru/new/public/lots/lot/24000011110000000001_1", lots[0].LotURL)

	assert.Equal(t, "Трактор", lots[1].Title)
	assert.Nil(t, lots[1].InitialPrice)
	assert.Equal(t, 1000000.0, *lots[1].CurrentPrice)
}
