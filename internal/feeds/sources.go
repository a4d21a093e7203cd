package feeds

// Browser-like headers for sources that block non-browser clients.
var browserHeaders = map[string]string{
	"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Accept":          "application/rss+xml, application/atom+xml, application/xml, text/xml, */*",
	"Accept-Language": "en-US,en;q=0.9",
}

func withReferer(referer string) map[string]string {
	h := make(map[string]string, len(browserHeaders)+1)
	for k, v := range browserHeaders {
		h[k] = v
	}
	h["Referer"] = referer
	return h
}

const defaultCriteria = `
**Keep items about:**
- Military conflicts, operations, tensions
- Diplomatic incidents, sanctions, expulsions
- NATO/Russia/China/US relations
- Ukraine, Middle East, Taiwan
- Arms deals, military readiness
- Political statements on war/peace

**Exclude:**
- Sports, culture, entertainment
- Pure economic/business news
- Domestic politics without geopolitical impact
- Celebrity/personal news
`

const tagesschauCriteria = `
**Keep - geographic hotspots:**
- Russia, Ukraine, Belarus, the Baltics, Poland, Moldova, Georgia
- Middle East (Israel, Palestine, Syria, Iran, Iraq, Lebanon, Turkey)
- China, Taiwan, South China Sea
- Balkans (Serbia, Kosovo, Bosnia)
- North Africa and Sahel where Wagner/Russia is involved

**Keep - escalation topics:**
- Wars, military operations, arms deliveries
- NATO/EU/Russia/China relations
- Sanctions, diplomatic crises
- Migration from conflict regions
- EU security policy (surveillance, defence)
- Government crises in strategic EU countries

**Exclude:**
- Latin America and Sub-Saharan Africa without Russia/China involvement
- Southeast Asia without a China angle
- Pure domestic politics without international impact
- Crime without geopolitical context
- Sports, entertainment, culture
- Business news without a sanctions/war angle
`

const jungeWeltCriteria = `
**Keep items about:**
- Military conflicts, NATO operations, arms deliveries to Ukraine
- Peace movement, anti-war protests
- Diplomatic tensions, sanctions policy
- US/NATO military presence in Europe
- Ukraine war, Middle East conflicts, Taiwan tensions
- Nuclear weapons, military infrastructure, defence policy
- German foreign/defence policy with geopolitical impact
- Energy geopolitics affecting military conflicts

**Exclude:**
- Labor/union news without a war/peace context
- Domestic German politics without international relevance
- Culture, sports, entertainment
- Local news (crime, accidents, regional politics)
- Historical articles without current geopolitical relevance
`

// Sources returns the configured feed sources. Window and threshold values
// are tuned per source: high-volume general feeds get the relevance filter,
// low-volume official feeds pass through on recency alone.
func Sources() []Source {
	return []Source{
		{
			Name: "Tagesschau Ausland",
			URL:  "https://www.tagesschau.de/ausland/index~rss2.xml",
			Filter: FilterConfig{
				WindowDays: 7,
				Threshold:  15,
				Criteria:   tagesschauCriteria,
			},
		},
		{
			Name: "Tagesschau Inland",
			URL:  "https://www.tagesschau.de/inland/index~rss2.xml",
			Filter: FilterConfig{
				WindowDays: 7,
				Threshold:  15,
				Criteria:   tagesschauCriteria,
			},
		},
		{
			Name: "Tagesschau Wirtschaft",
			URL:  "https://www.tagesschau.de/wirtschaft/index~rss2.xml",
			Filter: FilterConfig{
				WindowDays: 7,
				Threshold:  15,
				Criteria:   tagesschauCriteria,
			},
		},
		{
			Name: "NATO",
			URL:  "https://www.nato.int/cps/rss/en/natohq/rssFeed.xsl/rssFeed.xml",
			// NATO publishes dates like "19 Sep. 2025 12:00:00 GMT".
			DateLayouts: []string{"2 Jan. 2006 15:04:05 MST"},
			Headers:     browserHeaders,
			Filter:      FilterConfig{WindowDays: 7, Threshold: 30, Criteria: defaultCriteria},
		},
		{
			Name:   "Bundeswehr",
			URL:    "https://www.bundeswehr.de/service/rss/de/517054/feed",
			Filter: FilterConfig{WindowDays: 7, Threshold: 30, Criteria: defaultCriteria},
		},
		{
			Name: "Auswärtiges Amt",
			URL:  "https://www.auswaertiges-amt.de/static/appdata/includes/rss_en/RSS_Aktuelle_Artikel.xml",
			Filter: FilterConfig{
				WindowDays: 7,
				Threshold:  30,
				Criteria:   defaultCriteria,
			},
		},
		{
			Name: "Bundestag Aktuelle Themen",
			URL:  "https://www.bundestag.de/static/appdata/includes/rss/aktuellethemen.rss",
			// Low volume but noisy; the relevance filter always runs.
			Filter: FilterConfig{WindowDays: 7, Threshold: 1, Criteria: defaultCriteria},
		},
		{
			Name:      "Kommersant World",
			URL:       "https://www.kommersant.ru/rss/section-world.xml",
			Headers:   withReferer("https://www.kommersant.ru/"),
			CleanHTML: true,
			Filter:    FilterConfig{WindowDays: 2, Threshold: 30, Criteria: defaultCriteria},
		},
		{
			Name:      "RBC Politics",
			URL:       "https://rssexport.rbc.ru/rbcnews/news/30/full.rss",
			Headers:   browserHeaders,
			CleanHTML: true,
			Filter:    FilterConfig{WindowDays: 2, Threshold: 30, Criteria: defaultCriteria},
		},
		{
			Name:      "Russian Embassy Germany",
			URL:       "https://fetchrss.com/feed/aNKhK_-B6U4zaNKXXXURfdVl.rss",
			Headers:   browserHeaders,
			CleanHTML: true,
			Filter:    FilterConfig{WindowDays: 14, Threshold: 30, Criteria: defaultCriteria},
		},
		{
			Name:      "Junge Welt",
			URL:       "https://www.jungewelt.de/feeds/newsticker.rss",
			CleanHTML: true,
			Filter:    FilterConfig{WindowDays: 2, Threshold: 30, Criteria: jungeWeltCriteria},
		},
		{
			Name:      "Aftershock",
			URL:       "https://rss.aftershock.news/?q=rss/aftershock.xml",
			Headers:   browserHeaders,
			CleanHTML: true,
			Filter:    FilterConfig{WindowDays: 2, Threshold: 5, Criteria: defaultCriteria},
		},
		{
			Name: "Raja",
			URL:  "https://raja.fi/en/news-and-press-releases/-/asset_publisher/aCK7LggrYevU/rss",
			// Publishes rarely; the wide window keeps the recency filter inert.
			Filter: FilterConfig{WindowDays: 16000, Threshold: 10, Criteria: defaultCriteria},
		},
		{
			Name:   "Frontex",
			URL:    "https://www.frontex.europa.eu/media-centre/news/news-release/feed",
			Filter: FilterConfig{WindowDays: 30, Threshold: 30, Criteria: defaultCriteria},
		},
		{
			Name:   "IRU Flash Info",
			URL:    "https://www.iru.org/intelligence/flash-info/rss",
			Filter: FilterConfig{WindowDays: 30, Threshold: 30, Criteria: defaultCriteria},
		},
	}
}
