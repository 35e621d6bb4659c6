package discovery

import (
	"fmt"
	"strings"
)

const (
	aiDiscoverySystemPrompt = "You are a travel expert for Indian destinations. Return ONLY valid JSON arrays without any markdown formatting."
	geocodedSystemPrompt    = "You are a travel expert. Output JSON only."
	historianSystemPrompt   = "You are a knowledgeable Indian travel historian. Provide rich, engaging historical and cultural context about Indian destinations. Keep responses concise but informative (3-4 sentences)."
)

func getAIDiscoveryPrompt(destination string, preferences []string) string {
	return fmt.Sprintf(`List 40 MUST-VISIT tourist attractions in %s, India. Focus on:
- Famous landmarks and monuments
- Historical sites
- Popular temples, museums, parks
- Well-known restaurants and cafes
- Major shopping areas
- Natural attractions

User preferences: %s

IMPORTANT: Only include REAL, WELL-KNOWN places that tourists actually visit. No generic places.

For each place provide:
1. Name (exact, real place name - e.g., "Charminar", "Golconda Fort")
2. Category (Museum, Nature, Foodie, History, Shopping, Adventure, Religious, Rivers, Popular)
3. Description (1 sentence about why it's famous)

Return ONLY valid JSON array:
[{"name": "Exact Place Name", "category": "Category", "description": "Why it's famous"}, ...]`,
		destination, strings.Join(preferences, ", "))
}

func getGeocodedDiscoveryPrompt(destination string) string {
	return fmt.Sprintf(`List 20 MUST-VISIT famous tourist attractions in %s, India.

IMPORTANT: Only include REAL, WELL-KNOWN landmarks that tourists actually visit (like Charminar, Golconda Fort, Hussain Sagar Lake for Hyderabad).

Return JSON ONLY:
{
  "places": [
    { "name": "Exact Real Place Name", "category": "Heritage/Nature/Temple/Museum/Popular" }
  ]
}`, destination)
}

func getLocationContextPrompt(locationName string) string {
	return fmt.Sprintf(`Provide historical and cultural context about %s, India. Include:
- Historical significance and key events
- Cultural importance and traditions
- What makes it special or unique
- Best time to visit or key attractions

Keep it engaging and informative.`, locationName)
}
