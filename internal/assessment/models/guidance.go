package models

type guidanceKey struct {
	instrument InstrumentID
	bucket     Bucket
}

type guidanceEntry struct {
	description string
	guidance    []string
}

var guidanceTable = map[guidanceKey]guidanceEntry{
	{InstrumentPHQ9, BucketMinimal}: {
		description: "Your responses suggest minimal depression symptoms.",
		guidance: []string{
			"Continue maintaining your current wellness practices",
			"Regular exercise and good sleep hygiene can help maintain mental health",
			"Consider mindfulness or meditation practices",
			"Stay connected with friends and family",
		},
	},
	{InstrumentPHQ9, BucketMild}: {
		description: "Your responses suggest mild depression symptoms.",
		guidance: []string{
			"Consider talking to a trusted friend or family member",
			"Engage in regular physical activity and outdoor time",
			"Practice stress management techniques like deep breathing",
			"Maintain a regular sleep schedule",
			"Consider speaking with a counselor if symptoms persist",
		},
	},
	{InstrumentPHQ9, BucketModerate}: {
		description: "Your responses suggest moderate depression symptoms.",
		guidance: []string{
			"Consider reaching out to a mental health professional",
			"Talk to your primary care doctor about your symptoms",
			"Maintain social connections and avoid isolation",
			"Focus on basic self-care: nutrition, sleep, and hygiene",
			"Consider joining a support group",
		},
	},
	{InstrumentPHQ9, BucketSevere}: {
		description: "Your responses suggest severe depression symptoms.",
		guidance: []string{
			"Please consider speaking with a mental health professional soon",
			"Contact your doctor or a crisis helpline if you're having thoughts of self-harm",
			"Reach out to trusted friends or family for support",
			"Crisis Helpline: 988 (Suicide & Crisis Lifeline)",
			"Remember: You are not alone, and help is available",
		},
	},
	{InstrumentGAD7, BucketMinimal}: {
		description: "Your responses suggest minimal anxiety symptoms.",
		guidance: []string{
			"Continue your current stress management practices",
			"Regular exercise can help maintain low anxiety levels",
			"Practice relaxation techniques like deep breathing",
			"Maintain work-life balance",
		},
	},
	{InstrumentGAD7, BucketMild}: {
		description: "Your responses suggest mild anxiety symptoms.",
		guidance: []string{
			"Practice mindfulness and meditation regularly",
			"Try progressive muscle relaxation techniques",
			"Limit caffeine and alcohol intake",
			"Establish a regular sleep routine",
			"Consider talking to someone you trust about your worries",
		},
	},
	{InstrumentGAD7, BucketModerate}: {
		description: "Your responses suggest moderate anxiety symptoms.",
		guidance: []string{
			"Consider speaking with a mental health professional",
			"Practice anxiety management techniques daily",
			"Identify and avoid anxiety triggers when possible",
			"Consider cognitive behavioral therapy (CBT)",
			"Talk to your doctor about your symptoms",
		},
	},
	{InstrumentGAD7, BucketSevere}: {
		description: "Your responses suggest severe anxiety symptoms.",
		guidance: []string{
			"Please consider speaking with a mental health professional",
			"Contact your doctor about treatment options",
			"Practice grounding techniques during anxiety episodes",
			"Avoid isolation and maintain social connections",
			"Crisis support is available 24/7 if needed",
		},
	},
}
