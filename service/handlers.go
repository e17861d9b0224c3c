package service

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/brimdata/summary"
	"github.com/brimdata/summary/api"
	"github.com/brimdata/summary/calc"
	"github.com/brimdata/summary/ensemble"
	"github.com/brimdata/summary/service/srverr"
	"github.com/brimdata/summary/sio"
	"go.uber.org/zap"
)

const maxSuggestions = 5

func caseInfo(c *Core, cs *ensemble.Case) api.Case {
	return api.Case{
		ID:        cs.ID.String(),
		Name:      cs.Name,
		Path:      cs.Path,
		Addresses: len(c.caseReader(cs).AllResultAddresses()),
	}
}

func handleCaseList(c *Core, w *ResponseWriter, r *Request) {
	cases := c.ensemble.Cases()
	out := make([]api.Case, 0, len(cases))
	for _, cs := range cases {
		out = append(out, caseInfo(c, cs))
	}
	w.Respond(http.StatusOK, out)
}

func handleCasePost(c *Core, w *ResponseWriter, r *Request) {
	var req api.CasePostRequest
	if !r.Unmarshal(w, &req) {
		return
	}
	if req.Path == "" {
		w.Error(srverr.ErrInvalid("case path is required"))
		return
	}
	cs, err := c.OpenCase(r.Context(), req.Path)
	if err != nil {
		w.Error(err)
		return
	}
	r.Logger.Info("Case opened", zap.String("path", req.Path), zap.Stringer("id", cs.ID))
	w.Respond(http.StatusCreated, caseInfo(c, cs))
}

func lookupCase(c *Core, w *ResponseWriter, r *Request) (*ensemble.Case, bool) {
	id, ok := r.StringFromPath(w, "case")
	if !ok {
		return nil, false
	}
	cs, ok := c.ensemble.Case(id)
	if !ok {
		w.Error(srverr.ErrNotFound("case %q not found", id))
		return nil, false
	}
	return cs, true
}

// Cases stay open in the cache after they are removed.
func handleCaseDelete(c *Core, w *ResponseWriter, r *Request) {
	cs, ok := lookupCase(c, w, r)
	if !ok {
		return
	}
	c.ensemble.Remove(cs.ID.String())
	w.WriteHeader(http.StatusNoContent)
}

func handleAddressList(c *Core, w *ResponseWriter, r *Request) {
	cs, ok := lookupCase(c, w, r)
	if !ok {
		return
	}
	addrs, err := sio.Match(c.caseReader(cs), r.URL.Query().Get("match"))
	if err != nil {
		w.Error(srverr.ErrInvalid(err))
		return
	}
	out := make([]api.Address, 0, len(addrs))
	for _, a := range addrs {
		out = append(out, api.Address{
			Text:       a.TextAddress(),
			UI:         a.UIText(),
			Category:   a.Category.String(),
			Historical: a.IsHistorical(),
			Rate:       a.IsRate(),
			Total:      a.IsTotal(),
		})
	}
	w.Respond(http.StatusOK, out)
}

func notFound(a summary.Address, candidates []summary.Address) error {
	err := &srverr.Error{
		Kind: srverr.NotFound,
		Err:  errors.New("no vector " + a.TextAddress()),
	}
	for _, s := range summary.Suggest(a.TextAddress(), candidates, maxSuggestions) {
		err.Suggestions = append(err.Suggestions, s.TextAddress())
	}
	return err
}

func handleValues(c *Core, w *ResponseWriter, r *Request) {
	cs, ok := lookupCase(c, w, r)
	if !ok {
		return
	}
	a, ok := vectorAddress(c, w, r)
	if !ok {
		return
	}
	reader := c.caseReader(cs)
	if !reader.HasAddress(a) {
		w.Error(notFound(a, reader.AllResultAddresses()))
		return
	}
	addrs := []summary.Address{a}
	if w.Format == "json" {
		w.Respond(http.StatusOK, vectors(reader, addrs)[0])
		return
	}
	w.WriteVectors(reader, addrs)
}

// vectorAddress reads the address of a values request.  Calculated
// vectors have no parseable text address and are named by calculation id.
func vectorAddress(c *Core, w *ResponseWriter, r *Request) (summary.Address, bool) {
	s := r.URL.Query().Get("calculation")
	if s == "" {
		return r.AddressFromQuery(w, "address")
	}
	id, err := strconv.Atoi(s)
	if err != nil {
		w.Error(srverr.ErrInvalid("invalid query param %q: %w", "calculation", err))
		return summary.Address{}, false
	}
	calculation, err := c.calcs.Find(id)
	if err != nil {
		w.Error(err)
		return summary.Address{}, false
	}
	return calculation.Address(), true
}

func handleStatistics(c *Core, w *ResponseWriter, r *Request) {
	a, ok := r.AddressFromQuery(w, "address")
	if !ok {
		return
	}
	addrs := make([]summary.Address, len(ensemble.Statistics))
	for k, stat := range ensemble.Statistics {
		addrs[k] = ensemble.StatisticAddress(stat, a)
	}
	if !c.stats.HasAddress(addrs[0]) {
		w.Error(notFound(a, c.ensemble.Addresses()))
		return
	}
	w.WriteVectors(c.stats, addrs)
}

func calculationInfo(calculation *calc.Calculation, errs map[string]string) api.Calculation {
	out := api.Calculation{
		ID:          calculation.ID,
		Description: calculation.Description,
		Expression:  calculation.Expression,
		Address:     calculation.Address().TextAddress(),
		Unit:        calculation.Unit,
		Variables:   []api.Variable{},
		Cases:       calculation.Cases(),
		Errors:      errs,
	}
	for _, v := range calculation.Variables {
		av := api.Variable{Name: v.Name, Case: v.Case}
		if v.Address.IsValid() {
			av.Address = v.Address.TextAddress()
		}
		out.Variables = append(out.Variables, av)
	}
	return out
}

func handleCalculationList(c *Core, w *ResponseWriter, r *Request) {
	calcs := c.calcs.Calculations()
	out := make([]api.Calculation, 0, len(calcs))
	for _, calculation := range calcs {
		out = append(out, calculationInfo(calculation, nil))
	}
	w.Respond(http.StatusOK, out)
}

// handleCalculationPost adds a calculation and evaluates it for every open
// case.  Variables without a case follow the case being evaluated.
func handleCalculationPost(c *Core, w *ResponseWriter, r *Request) {
	var req api.CalculationRequest
	if !r.Unmarshal(w, &req) {
		return
	}
	calculation, err := calc.New(req.Expression)
	if err != nil {
		w.Error(err)
		return
	}
	calculation.Unit = req.Unit
	calculation.Interpolate = req.Interpolate
	for _, v := range req.Variables {
		a, err := summary.FromTextAddress(v.Address)
		if err != nil {
			w.Error(srverr.ErrInvalid("variable %s: %w", v.Name, err))
			return
		}
		caseID := v.Case
		if caseID == "" {
			caseID = calc.TargetCase
		}
		if err := calculation.Bind(v.Name, caseID, a); err != nil {
			w.Error(srverr.ErrInvalid(err))
			return
		}
	}
	c.calcs.Add(calculation)
	errs := make(map[string]string)
	for _, cs := range c.ensemble.Cases() {
		if _, err := c.calcs.Calculate(r.Context(), calculation.ID, cs.ID.String()); err != nil {
			errs[cs.ID.String()] = err.Error()
		}
	}
	if len(errs) == 0 {
		errs = nil
	}
	w.Respond(http.StatusCreated, calculationInfo(calculation, errs))
}

func lookupCalculation(c *Core, w *ResponseWriter, r *Request) (*calc.Calculation, bool) {
	id, ok := r.IntFromPath(w, "id")
	if !ok {
		return nil, false
	}
	calculation, err := c.calcs.Find(id)
	if err != nil {
		w.Error(err)
		return nil, false
	}
	return calculation, true
}

func handleCalculationGet(c *Core, w *ResponseWriter, r *Request) {
	calculation, ok := lookupCalculation(c, w, r)
	if !ok {
		return
	}
	w.Respond(http.StatusOK, calculationInfo(calculation, nil))
}

func handleCalculationDelete(c *Core, w *ResponseWriter, r *Request) {
	calculation, ok := lookupCalculation(c, w, r)
	if !ok {
		return
	}
	if err := c.calcs.Delete(calculation.ID); err != nil {
		w.Error(err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
