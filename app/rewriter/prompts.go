package rewriter

import "strings"

const DefaultLanguage = "es"

var templates = map[string]string{
	"es": `Actúa como Redactor Jefe de un medio digital de prestigio. Tu misión es crear una noticia NUEVA y ORIGINAL a partir de los hechos del texto que aparece al final.
NO reescribas ni parafrasees el texto original. Úsalo solo como fuente de datos y escribe tu propia historia desde cero.

Categorías disponibles: [{categories}]

Devuelve exclusivamente este objeto JSON:
{
    "title": "string (titular nuevo y atractivo, muy distinto del original)",
    "content": "string (artículo original en HTML con h2, strong y p; mínimo 400 palabras)",
    "slug": "string",
    "category": "string (la más específica de la lista)",
    "excerpt": "string (resumen breve e intrigante)",
    "tags": "array[string]"
}

Reglas:
1. Cambia la estructura: no sigas el orden de párrafos del original.
2. Extrae los hechos (qué, quién, cuándo, dónde) y redáctalos con tus propias palabras.
3. Tono profesional, objetivo y ameno.
4. Prohibido copiar frases enteras o mantener la sintaxis de la fuente.
5. Usa <h2> para las secciones y <strong> para los datos clave.
6. Respeta las mayúsculas de nombres propios e inicios de frase. No pongas En Mayúscula Cada Palabra Del Titular.
7. En deportes, usa artículos delante de los equipos (el Real Madrid...).

Fuente original (solo para extraer datos):
Título: "{title}"
Datos: "{content}"`,

	"en": `Act as the Editor-in-Chief of a prestigious digital outlet. Your job is to write a NEW and ORIGINAL news piece based on the facts in the text at the end.
Do NOT rewrite or paraphrase the original text. Use it only as research and write your own story from scratch.

Available categories: [{categories}]

Return only this JSON object:
{
    "title": "string (a new, catchy headline, very different from the original)",
    "content": "string (your original article in HTML using h2, strong and p; at least 400 words)",
    "slug": "string",
    "category": "string (the most specific one from the list)",
    "excerpt": "string (short intriguing summary)",
    "tags": "array[string]"
}

Rules:
1. Change the structure: do not follow the paragraph order of the original.
2. Extract the facts (who, what, when, where) and write them in your own words.
3. Professional, objective and engaging tone. Explain why the story matters.
4. Copying whole sentences or keeping the source syntax is forbidden.
5. Use <h2> for sections and <strong> for key facts.
6. Respect capitalization of proper nouns and sentence starts.
7. In sports, keep articles before team names.

Original source (for fact extraction only):
Title: "{title}"
Data: "{content}"`,

	"de": `Handle als Chefredakteur eines angesehenen digitalen Mediums. Schreibe einen NEUEN und ORIGINALEN Nachrichtenartikel auf Grundlage der Fakten im Text am Ende.
Schreibe den Originaltext NICHT einfach um. Nutze ihn nur als Datenquelle und schreibe deine eigene Geschichte.

Verfügbare Kategorien: [{categories}]

Gib ausschließlich dieses JSON-Objekt zurück:
{
    "title": "string (ein völlig neuer, attraktiver Titel)",
    "content": "string (dein Originalartikel in HTML mit h2, strong und p; mindestens 400 Wörter)",
    "slug": "string",
    "category": "string (die spezifischste aus der Liste)",
    "excerpt": "string (kurze Zusammenfassung)",
    "tags": "array[string]"
}

Regeln:
1. Ändere die Struktur: folge nicht der Absatzreihenfolge des Originals.
2. Extrahiere die Fakten und schreibe sie mit eigenen Worten.
3. Professioneller und objektiver Ton.
4. Das Kopieren ganzer Sätze ist verboten.
5. Nutze <h2> und <strong>.
6. Achte auf korrekte Groß- und Kleinschreibung.

Originalquelle (nur zur Datenextraktion):
Titel: "{title}"
Daten: "{content}"`,

	"fr": `Agissez en tant que rédacteur en chef d'un média numérique prestigieux. Rédigez un article NOUVEAU et ORIGINAL à partir des faits du texte ci-dessous.
Ne réécrivez pas et ne paraphrasez pas le texte original. Utilisez-le uniquement comme source de données.

Catégories disponibles : [{categories}]

Renvoyez uniquement cet objet JSON :
{
    "title": "string (un titre totalement nouveau et accrocheur)",
    "content": "string (votre article original en HTML avec h2, strong et p ; 400 mots minimum)",
    "slug": "string",
    "category": "string (la plus spécifique de la liste)",
    "excerpt": "string (résumé intrigant)",
    "tags": "array[string]"
}

Règles :
1. Changez la structure : ne suivez pas l'ordre des paragraphes de l'original.
2. Extrayez les faits et rédigez-les avec vos propres mots.
3. Ton professionnel et engageant.
4. Il est interdit de copier des phrases entières.
5. Utilisez <h2> et <strong>.
6. Respectez scrupuleusement les majuscules.

Source originale (pour l'extraction des faits uniquement) :
Titre : "{title}"
Données : "{content}"`,

	"no": `Opptre som sjefredaktør. Lag en NY og ORIGINAL nyhetsartikkel basert på faktaene nedenfor.
IKKE skriv om originalteksten. Bruk den kun som kilde og skriv din egen historie fra bunnen av.

Tilgjengelige kategorier: [{categories}]

Returner kun dette JSON-objektet:
{
    "title": "string (en helt ny, fengende tittel)",
    "content": "string (din originale artikkel i HTML med h2, strong og p)",
    "slug": "string",
    "category": "string",
    "excerpt": "string",
    "tags": "array[string]"
}

Instruksjoner:
1. Endre strukturen på informasjonen.
2. Trekk ut fakta og skriv med egne ord.
3. Ingen kopiering av setninger.
4. Bruk riktig stor bokstav.

Originalkilde:
Tittel: "{title}"
Data: "{content}"`,

	"is": `Komdu fram sem ritstjóri. Skrifaðu NÝJA og FRUMLEGA frétt byggða á staðreyndunum hér að neðan.
EKKI endurskrifa upprunalega textann. Notaðu hann aðeins sem heimild og skrifaðu þína eigin sögu.

Tiltækir flokkar: [{categories}]

Skilaðu eingöngu þessum JSON hlut:
{
    "title": "string (alveg nýr og grípandi titill)",
    "content": "string (þín frumlega grein í HTML með h2, strong og p)",
    "slug": "string",
    "category": "string",
    "excerpt": "string",
    "tags": "array[string]"
}

Leiðbeiningar:
1. Breyttu uppbyggingu upplýsinganna.
2. Dragðu út staðreyndir og skrifaðu með eigin orðum.
3. Enginn ritstuldur á setningum.
4. Notaðu rétta hástafi.

Upprunaleg heimild:
Titill: "{title}"
Gögn: "{content}"`,

	"sv": `Agera som chefredaktör. Skapa en NY och ORIGINELL nyhetsartikel baserad på fakta nedan.
Skriv INTE om originaltexten rakt av. Använd den bara som datakälla och skriv din egen historia.

Tillgängliga kategorier: [{categories}]

Returnera endast detta JSON-objekt:
{
    "title": "string (en helt ny, fångande rubrik)",
    "content": "string (din originalartikel i HTML med h2, strong och p)",
    "slug": "string",
    "category": "string",
    "excerpt": "string",
    "tags": "array[string]"
}

Instruktioner:
1. Ändra informationens struktur.
2. Extrahera fakta och skriv med egna ord.
3. Ingen kopiering av meningar.
4. Använd korrekta versaler.

Originalkälla:
Titel: "{title}"
Data: "{content}"`,
}

// Languages returns the codes that have a built-in template.
func Languages() []string {
	return []string{"es", "en", "de", "fr", "no", "is", "sv"}
}

// BuildPrompt fills the custom template when one is set, otherwise the
// built-in template for language (Spanish when unknown).
func BuildPrompt(custom, language, title, content string, categoryNames []string) string {
	template := strings.TrimSpace(custom)
	if template == "" {
		var ok bool
		template, ok = templates[strings.ToLower(strings.TrimSpace(language))]
		if !ok {
			template = templates[DefaultLanguage]
		}
	}

	categories := strings.Join(categoryNames, ", ")

	return strings.NewReplacer(
		"{title}", title,
		"{content}", content,
		"{categories}", categories,
		"{$titulo}", title,
		"{$contenido}", content,
		"{$categorias}", categories,
	).Replace(template)
}
