package dispatch

// registry assembles the complete tool vocabulary. The set is closed:
// names outside this list resolve to UnknownTool.
func registry() []*Tool {
	return []*Tool{
		searchPlayerTool(),
		getPlayerStatsTool(),
		getPlayerCareerTool(),
		searchPlayersByPositionTool(),
		comparePlayersTool(),
		getPlayerSocialTool(),
		searchTeamTool(),
		searchTeamsByLeagueTool(),
		getTeamRosterTool(),
		getTeamStatsTool(),
		compareTeamsTool(),
		getMatchDetailsTool(),
		searchMatchesTool(),
		searchMatchesByDateTool(),
		getHeadToHeadTool(),
		getCompetitionStandingsTool(),
		getCompetitionTopScorersTool(),
		getCompetitionInfoTool(),
		findCommonTeammatesTool(),
		getRivalryStatsTool(),
	}
}

// JSON Schema builders for tool input declarations.

func objectSchema(description string, props map[string]interface{}, required []string) map[string]interface{} {
	if required == nil {
		required = []string{}
	}
	return map[string]interface{}{
		"type":        "object",
		"description": description,
		"properties":  props,
		"required":    required,
	}
}

func stringProp(description string) map[string]interface{} {
	return map[string]interface{}{"type": "string", "description": description}
}

func intProp(description string, min, max, def int) map[string]interface{} {
	return map[string]interface{}{
		"type":        "integer",
		"description": description,
		"minimum":     min,
		"maximum":     max,
		"default":     def,
	}
}

func stringArrayProp(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "array",
		"description": description,
		"items":       map[string]interface{}{"type": "string"},
	}
}
