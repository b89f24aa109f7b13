package sharecard

import (
	"fmt"
	"strings"

	"github.com/squirrito-app/squirrito/pkg/domain/model"
)

// ContentType is the MIME type of a rendered card
const ContentType = "image/svg+xml"

var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

// Render produces a 1200x630 social share card for a memory. The output is
// pure SVG markup with no external references, so one immutable response per
// memory ID is safe to cache forever. The mini map on the right plots the
// memory's coordinates inside a r=140 circle scaled from the full lat/lng
// range.
func Render(mem *model.Memory) string {
	subtitle := fmt.Sprintf("%s • %s", mem.LocationText, mem.CreatedAt.Format("1/2/2006, 3:04:05 PM"))

	dotX := (mem.Lng / 180) * 120
	dotY := (-mem.Lat / 90) * 60

	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<svg width="1200" height="630" viewBox="0 0 1200 630" xmlns="http://www.w3.org/2000/svg">
  <defs>
    <linearGradient id="g" x1="0" y1="0" x2="1" y2="1">
      <stop offset="0%" stop-color="#0b1020"/><stop offset="100%" stop-color="#0a0f1c"/>
    </linearGradient>
    <filter id="s" x="-20%" y="-20%" width="140%" height="140%">
      <feGaussianBlur in="SourceGraphic" stdDeviation="20"/>
    </filter>
  </defs>
  <rect width="1200" height="630" fill="url(#g)"/>
  <circle cx="980" cy="140" r="120" fill="#2a61bf" filter="url(#s)" opacity="0.35"/>
  <text x="60" y="120" fill="#9fb7ff" font-family="system-ui" font-size="34" font-weight="600">Squirrito • Comedy Capsule</text>
`)
	fmt.Fprintf(&sb, `  <text x="60" y="170" fill="#c9d6ff" font-family="system-ui" font-size="22" opacity="0.9">%s</text>

`, escaper.Replace(subtitle))
	fmt.Fprintf(&sb, `  <foreignObject x="60" y="220" width="1080" height="260">
    <div xmlns="http://www.w3.org/1999/xhtml" style="font-family: system-ui; color:#e6f0ff; font-size: 36px; line-height: 1.25; font-weight: 700;">
      “%s”
    </div>
  </foreignObject>

`, escaper.Replace(mem.Joke))
	fmt.Fprintf(&sb, `  <g transform="translate(950, 360)">
    <circle cx="0" cy="0" r="140" fill="#0f1a35" stroke="#2e3e7a" stroke-width="2"/>
    <circle cx="0" cy="0" r="2" fill="#62ffb4"/>
    <circle cx="%g" cy="%g" r="5" fill="#ff5a5f" opacity="0.9"/>
    <text x="-100" y="160" fill="#9fb7ff" font-family="system-ui" font-size="16">(%.3f, %.3f)</text>
  </g>
</svg>`, dotX, dotY, mem.Lat, mem.Lng)

	return sb.String()
}
