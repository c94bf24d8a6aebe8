package service

const (
	WelcomeMessage = "Welcome to EcoPulse α!"

	// Placeholder EcoScore returned for every analysis.
	PlaceholderCarbon        = 80
	PlaceholderRecyclability = 90
	PlaceholderSourcing      = 85
	PlaceholderAlternative   = "Use bamboo instead!"
)
