package profile

func preciousMetals() *Profile {
	return &Profile{
		Name:     "Precious Metals",
		Slug:     "precious_metals",
		MinScore: 4,
		Subreddits: []string{
			"Gold", "Silverbugs", "WallStreetSilver", "investing", "coins",
			"Bullion", "PreciousMetals", "personalfinance", "goldbugs", "StackSilver",
		},
		NationalCap: 10,
		Keywords: []Keyword{
			{"best place to buy gold", 10}, {"best place to buy silver", 10},
			{"where to buy", 9}, {"first gold purchase", 9}, {"first silver purchase", 9},
			{"recommend a dealer", 9}, {"trusted dealer", 9}, {"looking to buy", 9},
			{"want to start stacking", 9}, {"where can i buy", 9}, {"best online dealer", 9},
			{"gold dealer", 8}, {"silver dealer", 8}, {"precious metals dealer", 8},
			{"how to buy gold", 8}, {"how to buy silver", 8},
			{"should i buy gold", 8}, {"should i buy silver", 8},
			{"thinking about buying", 8}, {"just bought my first", 8},
			{"gold ira", 8}, {"silver ira", 8},
			{"started collecting", 7}, {"buying gold", 7}, {"buying silver", 7},
			{"invest in gold", 7}, {"invest in silver", 7}, {"new to gold", 7},
			{"new to silver", 7}, {"stack silver", 7}, {"stack gold", 7},
			{"jm bullion", 7}, {"sd bullion", 7}, {"money metals", 7}, {"local coin shop", 7},
			{"gold bars", 6}, {"gold coins", 6}, {"silver bars", 6}, {"silver coins", 6},
			{"gold bullion", 6}, {"silver bullion", 6}, {"apmex", 6},
			{"lcs", 5},
			{"gold price", 4}, {"silver price", 4},
			{"precious metals", 3}, {"gold market", 3}, {"silver market", 3},
		},
		SellerSignals: []string{"dm for price", "for sale", "wts", "shipping included", "paypal ff"},
		YouTubeQueries: []string{
			"buying gold for beginners", "how to buy gold", "silver stacking", "best gold dealers",
		},
		SearchQueries: SearchQueries{
			Web: []string{`"where to buy gold" forum`, `"first silver purchase" forum`},
		},
		DefaultTopic: "precious metals",
		Topics: []Topic{
			{Name: "gold IRAs", Match: []string{"ira"}},
			{Name: "silver stacking", Match: []string{"silver", "stack"}},
			{Name: "buying gold", Match: []string{"gold"}},
		},
		ReplyTemplates: ReplyTemplates{
			High: []string{
				"When it comes to {{.Topic}}, compare the premium over spot across a few dealers and check buyback terms before your first order.\n\n[Company Name] publishes live premiums: [LANDING_URL]",
			},
			Medium: []string{
				"{{.Topic}} is a good way to diversify. Start with widely recognized coins or bars so resale is easy.\n\n[Company Name] has a beginner guide: [LANDING_URL]",
			},
			Low: []string{
				"Good discussion on {{.Topic}}. Premiums vary a lot between dealers, so it pays to compare.\n\n[Company Name]: [LANDING_URL]",
			},
		},
	}
}
