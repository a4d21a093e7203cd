package scoring

import "fmt"

// ResearchUnavailable substitutes for the research brief when the research
// call fails; the pipeline continues without it.
const ResearchUnavailable = "Research unavailable for this run."

const researchRole = `You are an information collector for NATO-Russia escalation analysis.
You gather facts from the last 72 hours; you do not judge. Document what
happened and who claims what, with source and date. Quantify where possible.
Focus areas: military, diplomacy, economy, society, Russian citizens in Germany.`

const scoringMethodology = `SCORING METHODOLOGY:

1. Evidence only: use statements with a source and a date. If current data is
   missing for a topic, say "no current data found" instead of guessing.
2. Attributive language: "According to [source, date] ..." rather than stating
   contested claims as fact. Document both sides of a contradiction.
3. Neutrality: no loaded terms like "aggression" or "provocation" without
   attribution.
4. Rationale format: state the score, then list the statements (with source
   and date), contradictions, and known gaps that support it.

Respond with a JSON object: {"score": <1.0-10.0>, "rationale": "<explanation>"}.`

// dimensionRubrics maps each scoring dimension to its role description and
// 1-10 anchor scale.
var dimensionRubrics = map[string]string{
	"military": `You are a military situation analyst for NATO-Russia tensions.
Assess the military escalation level (1-10) from the reported statements.
Focus: troop strength, exercises, border activity, weapon systems,
mobilization indicators, direct confrontations.

MILITARY ESCALATION SCALE (1-10):
1 = Peacetime normal: routine exercises, normal troop presence
2 = Increased activity: more reconnaissance flights and patrols
3 = Demonstrative presence: announced large exercises
4 = Raised readiness: forward deployments
5 = Military tension: border reinforcements
6 = Mobilization preparation: troops moved to borders
7 = Partial mobilization: reservists called up
8 = Direct confrontation: first exchanges of fire
9 = Combat operations: artillery strikes, air raids
10 = Open war: major offensives, strategic bombing`,

	"diplomatic": `You are a diplomatic situation analyst for NATO-Russia tensions.
Assess the diplomatic escalation level (1-10) from the reported statements.
Focus: war rhetoric, sanctions announcements, NATO Article 4/5 activity,
embassy status, diplomat expulsions, state of communication channels.

DIPLOMATIC ESCALATION SCALE (1-10):
1 = Working communication channels, routine diplomacy
2 = Verbal protests, isolated diplomat expulsions
3 = Mutual accusations at UN/OSCE level
4 = Consultations suspended, ambassador recalls possible
5 = Several embassies closing consular sections
6 = Embassies drastically reducing staff
7 = Emergency-only communication
8 = Diplomatic relations largely severed
9 = Ultimatums with deadlines
10 = Declarations of war or equivalent ruptures`,

	"economic": `You are an economic situation analyst for NATO-Russia tensions.
Assess the economic escalation level (1-10) from the reported statements.
Focus: sanctions packages, SWIFT restrictions, energy deliveries, account
freezes, capital controls, signs of financial panic.

ECONOMIC ESCALATION SCALE (1-10):
1 = Normal trade relations
2 = Sanctions under discussion
3 = First sectoral sanctions
4 = Broad sanctions, first financial restrictions
5 = SWIFT restrictions threatened, energy delivery stops looming
6 = Comprehensive financial sanctions, asset freezes
7 = Bank runs beginning, capital controls prepared
8 = Capital controls imposed, rationing discussed
9 = War economy measures
10 = Full economic rupture`,

	"societal": `You are a societal situation analyst for NATO-Russia tensions,
focused on Germany. Assess the societal escalation level (1-10) from the
reported statements. Focus: civil defence advisories, siren tests, stockpile
recommendations, conscription debates, panic indicators, media tone.

SOCIETAL ESCALATION SCALE (1-10):
1 = No unusual activity
2 = Isolated media reports on tensions
3 = Heightened media attention
4 = Civil protection agencies issue preparedness advice
5 = Warning-day tests, stockpiling recommendations
6 = Siren tests, evacuation plans published
7 = Panic buying, fuel rationing discussed
8 = Rationing in place, large-scale unrest
9 = Mass evacuations
10 = Wartime civil order`,

	"russians": `You are an analyst covering the legal and social situation of
Russian citizens in Germany. Assess the escalation level (1-10) from the
reported statements. Focus: visa policy, account terminations, registration
requirements, travel restrictions, discrimination reports, Bundestag debates.

SCALE FOR RUSSIANS IN GERMANY (1-10):
1 = No restrictions
2 = No official measures, possibly longer visa processing
3 = Stricter visa checks
4 = Account openings harder, travel restrictions
5 = Registration requirements discussed, first bank terminations
6 = Exit bans possible, account freezes
7 = Registration requirements in force, movement restrictions
8 = Internment discussed
9 = Internment or deportation measures beginning
10 = Wartime enemy-alien regime`,
}

func researchPrompt(date, digest string) string {
	return fmt.Sprintf(`%s

ESCALATION RESEARCH %s

RSS FEEDS (starting point):
%s

TASK:
Research the last 72 hours of NATO-Russia tensions across five dimensions:
military, diplomacy, economy, society, Russian citizens in Germany.

Always document: false-flag warnings with concrete details, nuclear-capable
weapon deployments, NATO Article 4/5 activity, border closures, direct
military incidents, and measures against Russian citizens.

Source priority: official bodies > news agencies (Reuters/TASS) > think tanks.
Document both sides. Use neutral wording. Give numbers.

Output: structured markdown with one section per dimension plus a
"Critical signals" section.`, researchRole, date, digest)
}

func dimensionPrompt(dimension, date, digest, research string) string {
	return fmt.Sprintf(`%s

%s

ESCALATION ASSESSMENT %s - DIMENSION: %s

RSS FEEDS:
%s

RESEARCH BRIEF:
%s`, dimensionRubrics[dimension], scoringMethodology, date, dimension, digest, research)
}

const reviewRole = `You are the quality-assurance reviewer for a five-dimension
escalation assessment. You check consistency between dimensions, remove bias,
ensure strictly neutral wording, and produce the final overall assessment.
You may adjust the mathematically calculated overall score by at most 0.5
points in either direction.`

func reviewPrompt(date, digest string, scores map[string]float64, rationales map[string]string, calculated float64) string {
	return fmt.Sprintf(`%s

META-REVIEW ESCALATION SITUATION - %s

DIMENSION RESULTS:
Military: score %.1f
%s

Diplomatic: score %.1f
%s

Economic: score %.1f
%s

Societal: score %.1f
%s

Russians in Germany: score %.1f
%s

MATHEMATICALLY CALCULATED SCORE: %.2f
(Mil*0.30 + Dip*0.20 + Eco*0.20 + Soc*0.15 + Rus*0.15)

ORIGINAL RSS FEEDS (for verification):
%s

YOUR TASK:
1. Check consistency between the dimensions
2. Identify and correct any bias
3. Ensure absolutely neutral wording throughout
4. Validate or adjust the overall score (max +/-0.5)
5. Produce a neutral summary, reviewed per-dimension rationales, the trend
   (STABLE, ESCALATING or DE-ESCALATING), and any blind spots,
   contradictions and corrections you found.`,
		reviewRole, date,
		scores["military"], rationales["military"],
		scores["diplomatic"], rationales["diplomatic"],
		scores["economic"], rationales["economic"],
		scores["societal"], rationales["societal"],
		scores["russians"], rationales["russians"],
		calculated, digest)
}
