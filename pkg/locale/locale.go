// Package locale holds the user-facing messages of the contact pipeline and
// picks a language for a request.
package locale

import (
	"golang.org/x/text/language"
)

// Key identifies a translatable message.
type Key string

const (
	NameRequired     Key = "name_required"
	EmailRequired    Key = "email_required"
	EmailInvalid     Key = "email_invalid"
	MessageRequired  Key = "message_required"
	FieldTooLong     Key = "field_too_long"
	CaptchaFailed    Key = "captcha_failed"
	Sent             Key = "sent"
	SendFailed       Key = "send_failed"
	GenericError     Key = "generic_error"
	NetworkError     Key = "network_error"
	Sending          Key = "sending"
	MethodNotAllowed Key = "method_not_allowed"
	NotFound         Key = "not_found"
	InvalidRequest   Key = "invalid_request"
	RateLimited      Key = "rate_limited"
)

var catalog = map[string]map[Key]string{
	"ar": {
		NameRequired:     "الرجاء إدخال الاسم الكامل.",
		EmailRequired:    "الرجاء إدخال عنوان بريدك الإلكتروني.",
		EmailInvalid:     "الرجاء إدخال عنوان بريد إلكتروني صالح.",
		MessageRequired:  "الرجاء كتابة رسالتك أو وصف المشكلة.",
		FieldTooLong:     "أحد الحقول أطول من المسموح به.",
		CaptchaFailed:    "فشل التحقق من أنك لست روبوتًا. يرجى المحاولة مرة أخرى.",
		Sent:             "تم إرسال رسالتك بنجاح! سيتم التواصل معك قريباً.",
		SendFailed:       "عذرًا، حدث خطأ أثناء محاولة إرسال رسالتك. يرجى المحاولة مرة أخرى لاحقًا أو التواصل معنا بطريقة أخرى.",
		GenericError:     "حدث خطأ. يرجى المحاولة مرة أخرى.",
		NetworkError:     "حدث خطأ في الاتصال. يرجى التحقق من اتصالك بالإنترنت والمحاولة مرة أخرى.",
		Sending:          "جاري الإرسال...",
		MethodNotAllowed: "طريقة الطلب غير صالحة.",
		NotFound:         "الصفحة المطلوبة غير موجودة.",
		InvalidRequest:   "طلب غير صالح.",
		RateLimited:      "عدد كبير من المحاولات. يرجى الانتظار قليلاً ثم المحاولة مرة أخرى.",
	},
	"en": {
		NameRequired:     "Please enter your name.",
		EmailRequired:    "Please enter your email address.",
		EmailInvalid:     "Please enter a valid email address.",
		MessageRequired:  "Please write your message or describe the problem.",
		FieldTooLong:     "One of the fields is longer than allowed.",
		CaptchaFailed:    "Captcha verification failed. Please try again.",
		Sent:             "Your message has been sent! We will get back to you soon.",
		SendFailed:       "Sorry, something went wrong while sending your message. Please try again later or contact us another way.",
		GenericError:     "An error occurred. Please try again.",
		NetworkError:     "Connection error. Please check your internet connection and try again.",
		Sending:          "Sending...",
		MethodNotAllowed: "Invalid request method.",
		NotFound:         "Not found.",
		InvalidRequest:   "Invalid request.",
		RateLimited:      "Too many attempts. Please wait a moment and try again.",
	},
	"fr": {
		NameRequired:     "Veuillez saisir votre nom.",
		EmailRequired:    "Veuillez saisir votre adresse e-mail.",
		EmailInvalid:     "Veuillez saisir une adresse e-mail valide.",
		MessageRequired:  "Veuillez écrire votre message ou décrire le problème.",
		FieldTooLong:     "Un des champs dépasse la longueur autorisée.",
		CaptchaFailed:    "La vérification captcha a échoué. Veuillez réessayer.",
		Sent:             "Votre message a bien été envoyé ! Nous vous répondrons rapidement.",
		SendFailed:       "Désolé, une erreur est survenue lors de l'envoi de votre message. Réessayez plus tard ou contactez-nous autrement.",
		GenericError:     "Une erreur est survenue. Veuillez réessayer.",
		NetworkError:     "Erreur de connexion. Vérifiez votre connexion Internet et réessayez.",
		Sending:          "Envoi en cours...",
		MethodNotAllowed: "Méthode de requête invalide.",
		NotFound:         "Introuvable.",
		InvalidRequest:   "Requête invalide.",
		RateLimited:      "Trop de tentatives. Patientez un instant puis réessayez.",
	},
}

// supported lists the catalog languages
var supported = []language.Tag{language.Arabic, language.English, language.French}

// Catalog resolves messages for a default locale and request preferences.
type Catalog struct {
	defaultLocale string
	codes         []string // matcher tag order
	matcher       language.Matcher
}

// NewCatalog returns a catalog that answers in defaultLocale when a request
// expresses no usable preference. Unknown defaults fall back to Arabic.
func NewCatalog(defaultLocale string) *Catalog {
	base := baseOf(defaultLocale)
	if _, ok := catalog[base]; !ok {
		base = "ar"
	}

	// The matcher falls back to its first tag, so the default goes first
	tags := []language.Tag{language.Make(base)}
	codes := []string{base}
	for _, t := range supported {
		if code := t.String(); code != base {
			tags = append(tags, t)
			codes = append(codes, code)
		}
	}

	return &Catalog{
		defaultLocale: base,
		codes:         codes,
		matcher:       language.NewMatcher(tags),
	}
}

// Default returns the catalog's default locale code.
func (c *Catalog) Default() string {
	return c.defaultLocale
}

// Match picks the best supported locale for the given preferences, in order:
// an explicit language code (e.g. a "lang" form field), then an
// Accept-Language header value.
func (c *Catalog) Match(explicit, acceptLanguage string) string {
	if explicit != "" && Supported(explicit) {
		return baseOf(explicit)
	}
	if acceptLanguage == "" {
		return c.defaultLocale
	}

	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return c.defaultLocale
	}

	_, index, confidence := c.matcher.Match(tags...)
	if confidence == language.No || index >= len(c.codes) {
		return c.defaultLocale
	}
	return c.codes[index]
}

// Message returns key in locale, falling back to the default locale and
// finally to the key itself.
func (c *Catalog) Message(loc string, key Key) string {
	if msg, ok := catalog[baseOf(loc)][key]; ok {
		return msg
	}
	if msg, ok := catalog[c.defaultLocale][key]; ok {
		return msg
	}
	return string(key)
}

// Supported reports whether loc has a catalog.
func Supported(loc string) bool {
	_, ok := catalog[baseOf(loc)]
	return ok
}

func baseOf(loc string) string {
	tag, err := language.Parse(loc)
	if err != nil {
		return loc
	}
	base, _ := tag.Base()
	return base.String()
}
