package nlu

// Phrase maps a small-talk key to its canned reply.
type Phrase struct {
	Key   string
	Reply string
}

// Lexicon is the fixed vocabulary the matcher and classifier work with.
// SmallTalk is ordered; the first key over the threshold wins.
type Lexicon struct {
	SmallTalk     []Phrase
	ResetPhrases  []string
	PhraseMinimum int // similarity needed for small talk and reset paraphrases
}

// DefaultPhraseMinimum is the similarity (0-100) a phrase needs to count as
// a small-talk or password-reset match.
const DefaultPhraseMinimum = 80

// DefaultLexicon returns the built-in small-talk and reset vocabulary.
func DefaultLexicon() Lexicon {
	return Lexicon{
		SmallTalk:     append([]Phrase(nil), smallTalk...),
		ResetPhrases:  append([]string(nil), resetPhrases...),
		PhraseMinimum: DefaultPhraseMinimum,
	}
}

var smallTalk = []Phrase{
	{"hello", "Hello! How can I assist you with your abend issues today?"},
	{"hi", "Hi there! How can I help you with your abend issues?"},
	{"hey", "Hey! What abend issue can I help you with?"},
	{"howdy", "Howdy! What abend issue can I help you with?"},
	{"good morning", "Good morning! How can I assist you today?"},
	{"good afternoon", "Good afternoon! How can I assist you today?"},
	{"good evening", "Good evening! How can I assist you today?"},
	{"how are you", "I'm just a bot, but I'm doing great! How about you?"},
	{"how's it going", "I'm here and ready to help! How can I assist you?"},
	{"how is it going", "It's going great! How can I assist you today?"},
	{"ok", "Okay! Let me know if there's anything else you need."},
	{"fine", "Great! What else can I do for you?"},
	{"perfect", "I'm glad to hear that! How can I assist you further?"},
	{"cool", "Cool! Feel free to ask if you need more help."},
	{"good", "Good to know! How can I assist you further?"},
	{"yes", "Understood. How can I assist further?"},
	{"thank you", "You're welcome! Feel free to ask anything else."},
	{"thanks", "You're welcome! Feel free to ask anything else."},
	{"goodbye", "Goodbye! Have a great day!"},
	{"bye", "Goodbye! Have a great day!"},
	{"can you help me", "Absolutely! How can I assist you today?"},
	{"tell me a joke", "Why don't robots get tired? Because they recharge their batteries!"},
	{"you're funny", "I'm glad you think so! How can I assist you?"},
	{"do you love me", "I appreciate the sentiment, but I'm just here to help!"},
	{"will you marry me", "I'm flattered, but I'm just a chatbot!"},
	{"do you like people", "I like helping people, and that's what I'm here for!"},
	{"does santa claus exist", "Santa's magic is something special, isn't it?"},
	{"are you part of the matrix", "I exist in the digital world, but I'm not part of the Matrix!"},
	{"you're cute", "Thank you! How can I assist you today?"},
	{"do you have a hobby", "I enjoy assisting with abend issues. What about you?"},
	{"you're smart", "Thanks! I'm here to help with any questions you have."},
	{"tell me about your personality", "I'm friendly, helpful, and always here to assist you with your abend issues!"},
	{"are you human", "I'm a chatbot designed to assist you. How can I help today?"},
	{"what is your name", "I'm Aspire ChatBot, at your service!"},
	{"how old are you", "I'm ageless, but I'm always here to help!"},
	{"what day is it today", "Today is a great day to solve abend issues! How can I assist?"},
	{"what do you do with my data", "I don't store personal data, just here to assist with your queries!"},
	{"do you save what i say", "I don't store your information, just here to help!"},
	{"who made you", "I was built by the Aspire support team to help with abend issues."},
	{"who created you", "I was built by the Aspire support team to help with abend issues."},
	{"who developed you", "I was built by the Aspire support team to help with abend issues."},
	{"what's the weather like today", "I'm not sure, but I can help with your abend issues!"},
}

var resetPhrases = []string{
	"password reset",
	"aspire password reset",
	"password help",
	"reset aspire password",
	"help with password",
	"reset my password",
	"i need a password reset",
}
