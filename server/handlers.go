package server

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/pentasign/pentasign-sdk/netutil"
	"github.com/pentasign/pentasign-sdk/parser"
	"github.com/pentasign/pentasign-sdk/schema"
	"github.com/pentasign/pentasign-sdk/signing/dto"
	"github.com/pentasign/pentasign-sdk/signing/values"
)

const (
	formDocument = "document"
	formSofi     = "sofi"
	formBundle   = "bundle"
	formMetadata = "metadata"
)

func (s *Server) getHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
		"scheme": s.service.Scheme(),
	})
}

func (s *Server) postSign(c echo.Context) error {
	ctx := c.Request().Context()

	document, err := s.readDocument(c)
	if err != nil {
		return err
	}

	result, err := s.sign(ctx, document, c.FormValue(formSofi))
	if err != nil {
		return err
	}

	if s.archive != nil {
		dir, err := s.archive.Store(ctx, result)
		if err != nil {
			return err
		}
		s.logger.DebugContext(ctx, "bundle archived", "doc_hash", result.Bundle.DocHash().Hex(), "path", dir)
	}

	return c.JSON(http.StatusOK, dto.FromResult(result))
}

func (s *Server) postVerify(c echo.Context) error {
	ctx := c.Request().Context()

	document, err := s.readDocument(c)
	if err != nil {
		return err
	}
	raw, err := s.readBundle(c)
	if err != nil {
		return err
	}

	p := parser.ForData(raw)
	if isJSON(p) {
		if err := s.schemas.Validate(schema.KindBundle, raw); err != nil {
			return err
		}
	}
	bundle, err := p.Parse(raw)
	if err != nil {
		return err
	}

	report, err := s.service.Check(ctx, document, bundle, c.FormValue(formMetadata))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.FromReport(report))
}

func (s *Server) getPattern(c echo.Context) error {
	digest := c.Param("digest")

	visual, err := s.renderer.Render(digest)
	if raw := c.QueryParam("nonce"); raw != "" {
		nonce, perr := values.ParseMaskNonce(raw)
		if perr != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "nonce must be an unsigned 32-bit integer")
		}
		visual, err = s.renderer.RenderMasked(digest, nonce)
	}
	if err != nil {
		return err
	}

	c.Response().Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	return c.Blob(http.StatusOK, "image/svg+xml", []byte(visual.SVG))
}

func (s *Server) listSchemas(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string][]string{"kinds": s.schemas.List()})
}

func (s *Server) getSchema(c echo.Context) error {
	kind := c.Param("kind")
	doc, ok := s.schemas.GetSchema(kind)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "unknown schema kind "+strconv.Quote(kind))
	}
	return c.Blob(http.StatusOK, "application/schema+json", []byte(doc))
}

func (s *Server) getBundle(c echo.Context) error {
	digest, err := values.ParseHex(c.Param("digest"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "digest must be 64 lowercase hex characters")
	}
	bundle, err := s.archive.Find(c.Request().Context(), digest)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.FromBundle(bundle))
}

// readDocument loads the multipart document part, bounded by the
// configured maximum size.
func (s *Server) readDocument(c echo.Context) ([]byte, error) {
	fh, err := c.FormFile(formDocument)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "missing multipart file \"document\"")
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	return netutil.ReadAll(f, s.config.MaxDocumentSize)
}

// readBundle accepts the bundle either as a form field or as a file part.
func (s *Server) readBundle(c echo.Context) ([]byte, error) {
	if v := c.FormValue(formBundle); v != "" {
		return []byte(v), nil
	}
	fh, err := c.FormFile(formBundle)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "missing form value \"bundle\"")
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	return netutil.ReadAll(f, maxBundleSize)
}

const maxBundleSize = 64 << 10

func isJSON(p parser.BundleParser) bool {
	_, ok := p.(*parser.JSONBundleParser)
	return ok
}
