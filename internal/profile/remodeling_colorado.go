package profile

func remodelingColorado() *Profile {
	return &Profile{
		Name:     "Home Remodeling (Colorado)",
		Slug:     "remodeling_colorado",
		MinScore: 4,
		Subreddits: []string{
			"Denver", "Colorado", "ColoradoSprings", "FortCollins", "Boulder",
			"AuroraCO", "Pueblo", "GrandJunction", "Longmont",
			"HomeImprovement", "InteriorDesign", "kitchenremodel", "DIY",
			"homeowners", "RealEstate", "firsttimehomebuyer", "centuryhomes", "Renovations",
		},
		LocalSubreddits: []string{
			"Denver", "Colorado", "ColoradoSprings", "FortCollins", "Boulder",
			"AuroraCO", "Pueblo", "GrandJunction", "Longmont",
		},
		LocalRequiredTerms: []string{
			"remodel", "renovate", "renovation", "contractor", "remodeler",
			"flooring", "countertop", "cabinet", "backsplash", "hardwood floor",
			"drywall", "plumbing", "electrical work", "home addition", "deck build",
			"patio", "handyman", "home improvement", "home repair", "fixer upper",
			"fixer-upper", "tile install", "tile work", "gut reno", "open concept",
			"roof repair", "roof replace", "siding", "window replace", "hvac",
			"furnace", "water heater", "garage conversion",
		},
		TargetLocations: []string{
			"denver", "colorado springs", "aurora", "fort collins", "lakewood",
			"thornton", "arvada", "westminster", "pueblo", "centennial",
			"boulder", "greeley", "longmont", "loveland", "broomfield",
			"castle rock", "parker", "commerce city", "littleton", "northglenn",
			"brighton", "englewood", "wheat ridge", "golden", "erie",
			"lafayette", "louisville", "highlands ranch", "lone tree", "cherry creek",
			"colorado", "front range", "co springs",
		},
		LocationBoost:    3,
		LocationTriggers: []string{"remodel", "renovate", "contractor", "kitchen", "bathroom", "remodeler"},
		NationalCap:      6,
		Keywords: []Keyword{
			{"looking for a contractor", 10}, {"need a contractor", 10},
			{"recommend a contractor", 10}, {"looking for a remodeler", 10},
			{"need a remodeler", 10}, {"need someone to remodel", 10},
			{"need to find a new contractor", 10},
			{"starting a kitchen remodel", 10}, {"starting a bathroom remodel", 10},
			{"who did your remodel", 9}, {"looking for someone to remodel", 9},
			{"want to remodel", 9}, {"planning a remodel", 9}, {"planning to renovate", 9},
			{"getting quotes", 9}, {"getting estimates", 9}, {"getting bids", 9},
			{"best contractor", 9}, {"trusted contractor", 9}, {"reputable contractor", 9},
			{"hire a contractor", 9}, {"hiring a contractor", 9},
			{"about to start a renovation", 9}, {"ready to renovate", 9},
			{"want to redo my kitchen", 9}, {"want to redo my bathroom", 9},
			{"contractor ghosted", 9}, {"fired my contractor", 9}, {"terrible contractor", 9},
			{"looking for contractor recommendations", 8}, {"can anyone recommend a contractor", 8},
			{"thinking about remodeling", 8}, {"thinking about renovating", 8},
			{"budget for remodel", 8}, {"cost to remodel", 8}, {"remodel estimate", 8},
			{"whole house remodel", 8}, {"gut renovation", 8}, {"master bath remodel", 8},
			{"bad contractor", 8},
			{"who would you recommend for", 7},
			{"kitchen remodel", 7}, {"bathroom remodel", 7}, {"basement remodel", 7},
			{"custom cabinets", 7}, {"quartz countertops", 7}, {"new countertops", 7},
			{"walk in shower", 7}, {"finished basement", 7}, {"home addition", 7},
			{"home renovation", 6}, {"house renovation", 6}, {"hardwood floors", 6},
			{"tile installation", 6}, {"backsplash", 6}, {"deck build", 6},
			{"angi", 6}, {"thumbtack", 6}, {"houzz", 6}, {"homeadvisor", 6},
			{"home depot", 5}, {"remodel ideas", 5}, {"renovation ideas", 5},
			{"before and after", 4}, {"design ideas", 4},
		},
		NegativeKeywords: []string{
			"things to do this weekend", "things to do in", "events this week",
			"hair salon", "haircut", "restaurant", "brunch", "happy hour",
			"hiking trail", "camping", "roommate", "sublease", "lost dog", "lost cat",
			"job posting", "hiring for", "we're hiring", "moving to", "moving from",
			"aquarium", "fish tank", "just listed", "just sold", "open house",
			"for rent", "for lease",
		},
		SellerSignals: []string{
			"i build", "we build", "i make", "we make", "handmade",
			"check out my", "check out our", "visit my", "visit our",
			"free estimate", "free consultation", "call us", "call me",
			"our services", "my services", "we offer", "i offer",
			"years of experience", "licensed and insured",
			"serving the denver", "serving colorado", "dm for price", "book now",
		},
		Competitors: []string{
			"Home Depot", "Lowe's", "Angi", "Angie's List", "HomeAdvisor",
			"Thumbtack", "Houzz", "Bath Fitter", "Re-Bath",
		},
		CompetitorSubreddits: []string{"Denver", "Colorado", "HomeImprovement", "homeowners", "Renovations"},
		ComplaintPhrases: []string{
			"bad experience with", "terrible service", "wouldn't recommend", "would not recommend",
			"don't hire", "do not hire", "ripped off", "scammed", "stay away from",
			"never again", "overcharged", "hidden fees", "bait and switch",
			"regret hiring", "fed up with", "shoddy work", "poor workmanship",
			"cut corners", "failed inspection", "had to redo", "botched",
		},
		YouTubeQueries: []string{
			"kitchen remodel before and after", "how to find a good contractor",
			"bathroom remodel ideas", "whole house renovation",
		},
		SearchQueries: SearchQueries{
			Web: []string{
				`"looking for a contractor" Denver remodel`,
				`"need a remodeler" Colorado`,
				`"contractor recommendations" Boulder remodel`,
			},
			Craigslist: []string{
				`site:craigslist.org "looking for contractor" denver OR colorado`,
				`site:craigslist.org "kitchen remodel" colorado`,
			},
			Facebook: []string{
				`site:facebook.com/groups "need a contractor" Denver`,
				`site:facebook.com/groups "remodel" "Colorado Springs"`,
			},
		},
		DefaultTopic: "home remodel",
		Topics: []Topic{
			{Name: "kitchen remodel", Match: []string{"kitchen"}},
			{Name: "bathroom remodel", Match: []string{"bathroom", "bath"}},
			{Name: "basement remodel", Match: []string{"basement"}},
			{Name: "home addition", Match: []string{"addition"}},
			{Name: "outdoor renovation", Match: []string{"outdoor", "deck", "patio"}},
			{Name: "finding a contractor", Match: []string{"contractor"}},
		},
		ReplyTemplates: ReplyTemplates{
			High: []string{
				"Choosing the contractor is the biggest decision on a {{.Topic}}. Get at least three quotes, check references in person, confirm they pull permits, and never pay more than 10-15% upfront.\n\n[Company Name] does free walk-throughs across the Front Range if you want another estimate: [LANDING_URL]",
				"Been through a {{.Topic}} myself. Get the scope in writing, and pick the most detailed bid rather than the cheapest one.\n\n[Company Name] gave us a very thorough estimate: [LANDING_URL]",
			},
			Medium: []string{
				"If you're planning a {{.Topic}}, set the budget and add 15-20% for surprises. Go see a contractor's finished work in person before signing.\n\n[Company Name] is happy to show past projects: [LANDING_URL]",
				"A {{.Topic}} adds real value when it's done right. Spending a bit more on finishes pays off.\n\n[Company Name] focuses on premium finishes: [LANDING_URL]",
			},
			Low: []string{
				"For anyone considering a {{.Topic}}: the installer matters more than the materials. A good one makes mid-range materials look premium.\n\n[Company Name] has examples of their finish work: [LANDING_URL]",
			},
		},
	}
}
