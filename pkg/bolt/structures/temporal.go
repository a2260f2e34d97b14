package structures

import (
	"math"

	"github.com/nexusgraph/bolt-go/pkg/bolt"
	"github.com/nexusgraph/bolt-go/pkg/packstream"
)

// utcPatchMajor, utcPatchMinor is the version at which DateTime and
// DateTimeZoneId switch from local-clock-plus-offset wire semantics to a
// UTC-instant-plus-offset one (spec.md §9's "DateTime (modern)" row).
// Bolt 4.3/4.4 negotiate the switch via a patch_bolt token (out of scope
// here: this driver treats any version >= 5.0 as modern and anything
// below as legacy, which is the common case once the patch negotiation
// itself is out of the picture).
const utcPatchMajor, utcPatchMinor = 5, 0

// Date is days since the Unix epoch.
type Date struct {
	DaysSinceEpoch int64
}

func (d Date) ToPackstream(bolt.Version) packstream.Value {
	return packstream.NewStructure(TagDate, []packstream.Value{packstream.NewInt(d.DaysSinceEpoch)})
}

func DateFromPackstream(val packstream.Value, _ bolt.Version) (Date, error) {
	st, err := asStructure(val)
	if err != nil {
		return Date{}, err
	}
	if err := expectTag(st, TagDate); err != nil {
		return Date{}, err
	}
	if len(st.Fields) != 1 {
		return Date{}, newErr(bolt.InvalidArgument, "Date must have exactly 1 field")
	}
	days, err := fieldInt(st.Fields, 0)
	if err != nil {
		return Date{}, err
	}
	return Date{DaysSinceEpoch: days}, nil
}

// Time is a time-of-day with a UTC offset: nanoseconds since midnight,
// plus the offset in seconds east of UTC.
type Time struct {
	NanosSinceMidnight int64
	TzOffsetSeconds    int64
}

func (t Time) ToPackstream(bolt.Version) packstream.Value {
	return packstream.NewStructure(TagTime, []packstream.Value{
		packstream.NewInt(t.NanosSinceMidnight),
		packstream.NewInt(t.TzOffsetSeconds),
	})
}

func TimeFromPackstream(val packstream.Value, _ bolt.Version) (Time, error) {
	st, err := asStructure(val)
	if err != nil {
		return Time{}, err
	}
	if err := expectTag(st, TagTime); err != nil {
		return Time{}, err
	}
	if len(st.Fields) != 2 {
		return Time{}, newErr(bolt.InvalidArgument, "Time must have exactly 2 fields")
	}
	nanos, err := fieldInt(st.Fields, 0)
	if err != nil {
		return Time{}, err
	}
	off, err := fieldInt(st.Fields, 1)
	if err != nil {
		return Time{}, err
	}
	return Time{NanosSinceMidnight: nanos, TzOffsetSeconds: off}, nil
}

// LocalTime is a time-of-day with no timezone attached.
type LocalTime struct {
	NanosSinceMidnight int64
}

func (t LocalTime) ToPackstream(bolt.Version) packstream.Value {
	return packstream.NewStructure(TagLocalTime, []packstream.Value{packstream.NewInt(t.NanosSinceMidnight)})
}

func LocalTimeFromPackstream(val packstream.Value, _ bolt.Version) (LocalTime, error) {
	st, err := asStructure(val)
	if err != nil {
		return LocalTime{}, err
	}
	if err := expectTag(st, TagLocalTime); err != nil {
		return LocalTime{}, err
	}
	if len(st.Fields) != 1 {
		return LocalTime{}, newErr(bolt.InvalidArgument, "LocalTime must have exactly 1 field")
	}
	nanos, err := fieldInt(st.Fields, 0)
	if err != nil {
		return LocalTime{}, err
	}
	return LocalTime{NanosSinceMidnight: nanos}, nil
}

// DateTime is always stored as a UTC instant plus the offset that was in
// effect at the client that produced it (spec.md §3/§4.5/§9): SecsUTC is
// always epoch-UTC seconds regardless of which wire tag is used.
type DateTime struct {
	SecsUTC  int64
	Nanos    int64
	TzOffset int64
}

// ToPackstream picks the modern (0x49) tag at Bolt >= 5.0 and the legacy
// (0x46) tag below that, converting SecsUTC to the legacy local-clock
// field as spec.md §4.5/§9 describes.
func (d DateTime) ToPackstream(v bolt.Version) packstream.Value {
	if v.AtLeast(utcPatchMajor, utcPatchMinor) {
		return packstream.NewStructure(TagDateTime, []packstream.Value{
			packstream.NewInt(d.SecsUTC),
			packstream.NewInt(d.Nanos),
			packstream.NewInt(d.TzOffset),
		})
	}
	return packstream.NewStructure(TagDateTimeLegacy, []packstream.Value{
		packstream.NewInt(d.SecsUTC + d.TzOffset),
		packstream.NewInt(d.Nanos),
		packstream.NewInt(d.TzOffset),
	})
}

// DateTimeFromPackstream inspects the actual wire tag (not the negotiated
// version) to decide modern vs legacy decoding, since a server may emit
// either depending on what it actually sent (spec.md §4.5).
func DateTimeFromPackstream(val packstream.Value, _ bolt.Version) (DateTime, error) {
	st, err := asStructure(val)
	if err != nil {
		return DateTime{}, err
	}
	if len(st.Fields) != 3 {
		return DateTime{}, newErr(bolt.InvalidArgument, "DateTime must have exactly 3 fields")
	}
	secs, err := fieldInt(st.Fields, 0)
	if err != nil {
		return DateTime{}, err
	}
	nanos, err := fieldInt(st.Fields, 1)
	if err != nil {
		return DateTime{}, err
	}
	off, err := fieldInt(st.Fields, 2)
	if err != nil {
		return DateTime{}, err
	}
	switch st.Tag {
	case TagDateTime:
		return DateTime{SecsUTC: secs, Nanos: nanos, TzOffset: off}, nil
	case TagDateTimeLegacy:
		// Legacy wire field is local-clock seconds; reconstruct the UTC
		// instant: secs_epoch_utc = secs_field - tz_offset_seconds.
		return DateTime{SecsUTC: secs - off, Nanos: nanos, TzOffset: off}, nil
	default:
		return DateTime{}, newErr(bolt.InvalidArgument, "structure tag is not a DateTime tag")
	}
}

// DateTimeZoneId is a zoned datetime carried by timezone id (e.g.
// "Europe/Berlin") rather than a raw numeric offset.
type DateTimeZoneId struct {
	SecsUTC int64
	Nanos   int64
	TzID    string
}

// ToPackstream only supports the modern (0x69) tag. Emitting the legacy
// tag (0x66) would require resolving TzID to the offset in effect at
// SecsUTC, which needs a timezone database this driver does not carry
// (spec.md §4.5's documented limitation); callers that need the legacy
// wire form must use ToPackstreamLegacy with an explicit offset.
func (d DateTimeZoneId) ToPackstream(bolt.Version) packstream.Value {
	return packstream.NewStructure(TagDateTimeZoneId, []packstream.Value{
		packstream.NewInt(d.SecsUTC),
		packstream.NewInt(d.Nanos),
		packstream.NewString(d.TzID),
	})
}

// ToPackstreamLegacy emits the legacy (0x66) tag given an explicit
// tzOffsetSeconds supplied by the caller (spec.md §4.5's documented
// extension point), since this driver cannot resolve TzID on its own.
func (d DateTimeZoneId) ToPackstreamLegacy(tzOffsetSeconds int64) packstream.Value {
	return packstream.NewStructure(TagDateTimeZoneIdLegacy, []packstream.Value{
		packstream.NewInt(d.SecsUTC + tzOffsetSeconds),
		packstream.NewInt(d.Nanos),
		packstream.NewString(d.TzID),
	})
}

// DateTimeZoneIdFromPackstream inspects the actual tag. On the legacy
// tag, per spec.md §9's preserved ambiguity, the wire seconds field is
// stored directly as SecsUTC without reconciling the timezone offset:
// the source does not have a timezone database to resolve TzID with, so
// the caller is left to reconcile it if needed.
func DateTimeZoneIdFromPackstream(val packstream.Value, _ bolt.Version) (DateTimeZoneId, error) {
	st, err := asStructure(val)
	if err != nil {
		return DateTimeZoneId{}, err
	}
	if len(st.Fields) != 3 {
		return DateTimeZoneId{}, newErr(bolt.InvalidArgument, "DateTimeZoneId must have exactly 3 fields")
	}
	secs, err := fieldInt(st.Fields, 0)
	if err != nil {
		return DateTimeZoneId{}, err
	}
	nanos, err := fieldInt(st.Fields, 1)
	if err != nil {
		return DateTimeZoneId{}, err
	}
	tzID, err := fieldString(st.Fields, 2)
	if err != nil {
		return DateTimeZoneId{}, err
	}
	switch st.Tag {
	case TagDateTimeZoneId, TagDateTimeZoneIdLegacy:
		return DateTimeZoneId{SecsUTC: secs, Nanos: nanos, TzID: tzID}, nil
	default:
		return DateTimeZoneId{}, newErr(bolt.InvalidArgument, "structure tag is not a DateTimeZoneId tag")
	}
}

// LocalDateTime has no timezone attached at all.
type LocalDateTime struct {
	SecsLocal int64
	Nanos     int64
}

func (d LocalDateTime) ToPackstream(bolt.Version) packstream.Value {
	return packstream.NewStructure(TagLocalDateTime, []packstream.Value{
		packstream.NewInt(d.SecsLocal),
		packstream.NewInt(d.Nanos),
	})
}

func LocalDateTimeFromPackstream(val packstream.Value, _ bolt.Version) (LocalDateTime, error) {
	st, err := asStructure(val)
	if err != nil {
		return LocalDateTime{}, err
	}
	if err := expectTag(st, TagLocalDateTime); err != nil {
		return LocalDateTime{}, err
	}
	if len(st.Fields) != 2 {
		return LocalDateTime{}, newErr(bolt.InvalidArgument, "LocalDateTime must have exactly 2 fields")
	}
	secs, err := fieldInt(st.Fields, 0)
	if err != nil {
		return LocalDateTime{}, err
	}
	nanos, err := fieldInt(st.Fields, 1)
	if err != nil {
		return LocalDateTime{}, err
	}
	return LocalDateTime{SecsLocal: secs, Nanos: nanos}, nil
}

// Duration is months/days/seconds/nanoseconds. Nanos is carried as an
// int64 on the wire but the domain field is 32-bit (spec.md §4.5).
type Duration struct {
	Months  int64
	Days    int64
	Seconds int64
	Nanos   int32
}

func (d Duration) ToPackstream(bolt.Version) packstream.Value {
	return packstream.NewStructure(TagDuration, []packstream.Value{
		packstream.NewInt(d.Months),
		packstream.NewInt(d.Days),
		packstream.NewInt(d.Seconds),
		packstream.NewInt(int64(d.Nanos)),
	})
}

func DurationFromPackstream(val packstream.Value, _ bolt.Version) (Duration, error) {
	st, err := asStructure(val)
	if err != nil {
		return Duration{}, err
	}
	if err := expectTag(st, TagDuration); err != nil {
		return Duration{}, err
	}
	if len(st.Fields) != 4 {
		return Duration{}, newErr(bolt.InvalidArgument, "Duration must have exactly 4 fields")
	}
	months, err := fieldInt(st.Fields, 0)
	if err != nil {
		return Duration{}, err
	}
	days, err := fieldInt(st.Fields, 1)
	if err != nil {
		return Duration{}, err
	}
	secs, err := fieldInt(st.Fields, 2)
	if err != nil {
		return Duration{}, err
	}
	nanos, err := fieldInt(st.Fields, 3)
	if err != nil {
		return Duration{}, err
	}
	if nanos < math.MinInt32 || nanos > math.MaxInt32 {
		return Duration{}, newErr(bolt.DeserializationError, "Duration.nanos does not fit in int32")
	}
	return Duration{Months: months, Days: days, Seconds: secs, Nanos: int32(nanos)}, nil
}
