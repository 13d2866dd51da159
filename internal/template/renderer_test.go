package template

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/ligue-campaigns/internal/entity"
)

func TestRenderGreetingScenario(t *testing.T) {
	bindings := map[string]string{
		"greeting":          "Boa tarde",
		"contact.firstName": "Ana",
		"data_limite":       "31/12/2024",
	}

	res, err := Render("{{greeting}}, {{contact.firstName}}! Prazo: {{data_limite}}", nil, bindings, Options{})
	require.NoError(t, err)
	assert.Equal(t, "Boa tarde, Ana! Prazo: 31/12/2024", res.Body)
	assert.Nil(t, res.Subject)
}

func TestRenderSyntaxVariants(t *testing.T) {
	bindings := map[string]string{"nome": "Ana", "contact.name": "Ana Souza"}

	t.Run("whitespace inside braces", func(t *testing.T) {
		res, err := Render("Olá {{  nome }}", nil, bindings, Options{})
		require.NoError(t, err)
		assert.Equal(t, "Olá Ana", res.Body)
	})

	t.Run("legacy single braces", func(t *testing.T) {
		res, err := Render("Olá {nome}", nil, bindings, Options{})
		require.NoError(t, err)
		assert.Equal(t, "Olá Ana", res.Body)
	})

	t.Run("case insensitive keys", func(t *testing.T) {
		res, err := Render("{{CONTACT.NAME}} / {Nome}", nil, bindings, Options{})
		require.NoError(t, err)
		assert.Equal(t, "Ana Souza / Ana", res.Body)
	})
}

func TestRenderNoSubstringCollisions(t *testing.T) {
	bindings := map[string]string{
		"name":         "SHORT",
		"contact.name": "Ana Souza",
		"clinic.name":  "Clínica Central",
	}

	res, err := Render("{{contact.name}} | {clinic.name} | {{name}}", nil, bindings, Options{})
	require.NoError(t, err)
	assert.Equal(t, "Ana Souza | Clínica Central | SHORT", res.Body)
}

func TestRenderResolvesEveryBoundPlaceholder(t *testing.T) {
	bindings := map[string]string{"a": "1", "b.c": "2", "d_e": "3"}
	body := "{{a}} {{ b.c }} {d_e} {{A}}"

	res, err := Render(body, nil, bindings, Options{})
	require.NoError(t, err)
	for key := range bindings {
		assert.NotContains(t, strings.ToLower(res.Body), "{{"+key+"}}")
	}
	assert.Equal(t, "1 2 3 1", res.Body)
}

func TestRenderUnusedPlaceholders(t *testing.T) {
	body := "Olá {{nome}}, clínica: {{clinic.name}} {legacy}"
	bindings := map[string]string{"nome": "Ana"}

	t.Run("kept literal by default", func(t *testing.T) {
		res, err := Render(body, nil, bindings, Options{})
		require.NoError(t, err)
		assert.Equal(t, "Olá Ana, clínica: {{clinic.name}} {legacy}", res.Body)
	})

	t.Run("removed with CleanUnused", func(t *testing.T) {
		res, err := Render(body, nil, bindings, Options{CleanUnused: true})
		require.NoError(t, err)
		assert.Equal(t, "Olá Ana, clínica:  ", res.Body)
		assert.NotContains(t, res.Body, "{")
	})

	t.Run("replaced with default", func(t *testing.T) {
		res, err := Render("Clínica: {{clinic.name}}", nil, bindings, Options{CleanUnused: true, Default: "-"})
		require.NoError(t, err)
		assert.Equal(t, "Clínica: -", res.Body)
	})
}

func TestRenderSubject(t *testing.T) {
	subject := "{{nome}}, seu exame"
	res, err := Render("corpo", &subject, map[string]string{"nome": "Ana"}, Options{Channel: entity.ChannelEmail})
	require.NoError(t, err)
	require.NotNil(t, res.Subject)
	assert.Equal(t, "Ana, seu exame", *res.Subject)
}

func TestRenderSMSSegments(t *testing.T) {
	res, err := Render(strings.Repeat("a", 200), nil, nil, Options{Channel: entity.ChannelSMS})
	require.NoError(t, err)
	require.NotNil(t, res.SMS)
	assert.Equal(t, 200, res.SMS.Characters)
	assert.Equal(t, 2, res.SMS.Segments)
	assert.True(t, res.SMS.WillSplit)

	short := MeasureSMS("Olá, tudo bem?")
	assert.Equal(t, 1, short.Segments)
	assert.False(t, short.WillSplit)

	exact := MeasureSMS(strings.Repeat("é", 160))
	assert.Equal(t, 160, exact.Characters)
	assert.Equal(t, 1, exact.Segments)
	assert.False(t, exact.WillSplit)
}

func TestRenderHTMLFromPlainText(t *testing.T) {
	body := "Olá {{nome}},\nseu exame está chegando.\n\nAté breve!"
	res, err := Render(body, nil, map[string]string{"nome": "Ana"}, Options{Channel: entity.ChannelEmail})
	require.NoError(t, err)
	assert.Equal(t, "<p>Olá Ana,<br>\nseu exame está chegando.</p>\n<p>Até breve!</p>", res.HTML)
	assert.Equal(t, "Olá Ana,\nseu exame está chegando.\n\nAté breve!", res.Body)
}

func TestRenderHTMLKeepsExistingMarkup(t *testing.T) {
	body := "<p>Olá <strong>{{nome}}</strong></p>\n<p>linha um\nlinha dois</p>"
	res, err := Render(body, nil, map[string]string{"nome": "Ana & Bia"}, Options{Channel: entity.ChannelEmail})
	require.NoError(t, err)
	assert.Equal(t, "<p>Olá <strong>Ana & Bia</strong></p>\n<p>linha um<br>\nlinha dois</p>", res.HTML)
}

func TestRenderHTMLWithButtonBinding(t *testing.T) {
	button := `<a href="https://x.test/agendar/r1">Agendar</a>`
	res, err := Render("Clique abaixo:\n{{botao}}", nil, map[string]string{"botao": button}, Options{Channel: entity.ChannelEmail})
	require.NoError(t, err)
	assert.Equal(t, "<p>Clique abaixo:<br>\n"+button+"</p>", res.HTML)
}

func TestRenderMalformedTemplate(t *testing.T) {
	_, err := Render("abc\xff", nil, nil, Options{})
	assert.ErrorIs(t, err, ErrMalformedTemplate)

	bad := "\xfe"
	_, err = Render("ok", &bad, nil, Options{})
	assert.ErrorIs(t, err, ErrMalformedTemplate)
}

func TestPlaceholders(t *testing.T) {
	keys := Placeholders("{{Nome}} {clinic.name} {{ nome }} {{booking.url}}")
	assert.Equal(t, []string{"nome", "clinic.name", "booking.url"}, keys)
}
