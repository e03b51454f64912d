package domain

// ReminderKind identifies one of the four pre-event reminder windows. The
// per-guest sent flag, not the email event log, is the once-only guard.
type ReminderKind string

const (
	ReminderOneWeek  ReminderKind = "one_week"
	ReminderTwoDay   ReminderKind = "two_day"
	ReminderOneDay   ReminderKind = "one_day"
	ReminderFiveHour ReminderKind = "five_hour"
)

func (k ReminderKind) EmailType() EmailType {
	switch k {
	case ReminderOneWeek:
		return EmailReminderOneWeek
	case ReminderTwoDay:
		return EmailReminderTwoDay
	case ReminderOneDay:
		return EmailReminderOneDay
	case ReminderFiveHour:
		return EmailReminderFiveHour
	}
	return ""
}

func (k ReminderKind) FlagSet(g *Guest) bool {
	switch k {
	case ReminderOneWeek:
		return g.ReminderOneWeekSent
	case ReminderTwoDay:
		return g.ReminderTwoDaySent
	case ReminderOneDay:
		return g.ReminderOneDaySent
	case ReminderFiveHour:
		return g.ReminderFiveHourSent
	}
	return false
}
