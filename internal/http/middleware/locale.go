package middleware

import (
	"github.com/gofiber/fiber/v2"
	"golang.org/x/text/language"
)

// LocaleLocalKey is the key under which the negotiated language.Tag is stored.
const LocaleLocalKey = "locale"

// Locale negotiates the response locale from the ?locale= query parameter,
// then Accept-Language, against supported. The first supported tag is the fallback.
func Locale(supported ...language.Tag) fiber.Handler {
	if len(supported) == 0 {
		supported = []language.Tag{language.English}
	}
	matcher := language.NewMatcher(supported)

	return func(c *fiber.Ctx) error {
		var desired []language.Tag
		if q := c.Query("locale"); q != "" {
			if t, err := language.Parse(q); err == nil {
				desired = append(desired, t)
			}
		}
		if tags, _, err := language.ParseAcceptLanguage(c.Get(fiber.HeaderAcceptLanguage)); err == nil {
			desired = append(desired, tags...)
		}

		tag := supported[0]
		if _, idx, conf := matcher.Match(desired...); conf != language.No {
			tag = supported[idx]
		}
		c.Locals(LocaleLocalKey, tag)
		return c.Next()
	}
}

// LocaleFrom returns the negotiated locale, or English when Locale did not run.
func LocaleFrom(c *fiber.Ctx) language.Tag {
	if tag, ok := c.Locals(LocaleLocalKey).(language.Tag); ok {
		return tag
	}
	return language.English
}
