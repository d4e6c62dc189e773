package dashboard

import (
	"database/sql"
	"errors"
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

const defaultLimit = 100

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (s *Server) handleIndices(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", defaultLimit)
	records, err := s.repo.Indices(limit)
	if err != nil {
		log.Error().Err(err).Msg("failed to load indices")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load indices"})
	}
	return c.JSON(fiber.Map{"count": len(records), "indices": records})
}

func (s *Server) handleIndexByID(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "municipality id must be an integer"})
	}

	record, err := s.repo.IndexByID(id)
	if errors.Is(err, sql.ErrNoRows) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "municipality not found"})
	}
	if err != nil {
		log.Error().Err(err).Int64("municipio_id", id).Msg("failed to load index")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load index"})
	}
	return c.JSON(record)
}

func (s *Server) handleHome(c *fiber.Ctx) error {
	records, err := s.repo.Indices(defaultLimit)
	if err != nil {
		log.Error().Err(err).Msg("failed to load indices for home page")
		return c.Status(fiber.StatusInternalServerError).SendString("failed to load indices")
	}

	var b strings.Builder
	b.WriteString(`<!doctype html><html><head><meta charset="utf-8"><title>Vulnerability Explorer</title></head><body>`)
	b.WriteString(`<h1>Vulnerability Explorer</h1>`)
	if len(records) == 0 {
		b.WriteString(`<p>No indices computed yet. Run the extract, enrich and indices stages first.</p>`)
	} else {
		b.WriteString(`<table border="1" cellpadding="4"><tr><th>#</th><th>Municipality</th><th>UF</th><th>Population</th><th>Index</th></tr>`)
		for i, r := range records {
			pop := ""
			if r.Populacao != nil {
				pop = strconv.FormatFloat(*r.Populacao, 'f', 0, 64)
			}
			fmt.Fprintf(&b, `<tr><td>%d</td><td>%s</td><td>%s</td><td>%s</td><td>%.4f</td></tr>`,
				i+1, html.EscapeString(r.Municipio), html.EscapeString(r.UF), pop, r.VulnOverall)
		}
		b.WriteString(`</table>`)
	}
	b.WriteString(`</body></html>`)

	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.SendString(b.String())
}
