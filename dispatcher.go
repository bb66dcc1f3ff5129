package sqlauth

// Dispatcher turns identify requests into asynchronous credential lookups
// against the configured engine. It owns the collaborators every attempt
// needs, so attempts carry explicit references instead of reading process
// globals.
type Dispatcher struct {
	settings    *Settings
	engines     *EngineRegistry
	provisioner *Provisioner
	sink        ActivitySink
	logger      Logger
}

// NewDispatcher returns a new Dispatcher
func NewDispatcher(settings *Settings, engines *EngineRegistry, provisioner *Provisioner) *Dispatcher {
	return &Dispatcher{
		settings:    settings,
		engines:     engines,
		provisioner: provisioner,
		sink:        noopActivitySink{},
		logger:      defLogger{},
	}
}

func (d *Dispatcher) WithLogger(l Logger) *Dispatcher {
	if l != nil {
		d.logger = l
	}
	return d
}

// WithActivitySink configures the sink attempts report lookup and login
// events to.
func (d *Dispatcher) WithActivitySink(sink ActivitySink) *Dispatcher {
	d.sink = normalizeActivitySink(sink)
	return d
}

// CheckAuthentication builds the parameterized lookup for req and submits
// it to the configured engine, with a fresh Attempt attached as the result
// sink. When no engine matches the configured identifier it logs and
// returns ErrEngineNotFound without dispatching; the request stays pending,
// which is an operational problem rather than a per-attempt denial.
//
// session may be nil for requests with no live caller; the nickname and
// ip-address parameters bind to empty strings then.
func (d *Dispatcher) CheckAuthentication(session Session, req IdentifyRequest) error {
	cfg := d.settings.Snapshot()

	engine, ok := d.engines.Lookup(cfg.Engine)
	if !ok {
		d.logger.Error("unable to find sql engine %q", cfg.Engine)
		return ErrEngineNotFound
	}

	q := Query{
		Template: cfg.Query,
		Params: map[string]string{
			ParamAccount:   req.GetAccount(),
			ParamPassword:  req.GetPassword(),
			ParamNickname:  "",
			ParamIPAddress: "",
		},
	}
	if session != nil {
		q.Params[ParamNickname] = session.Nick()
		q.Params[ParamIPAddress] = session.IP()
	}

	attempt := newAttempt(session, req, q, cfg.DispatchTimeout, d.provisioner, d.sink, d.logger)
	engine.Run(attempt, q)

	d.logger.Info("checking authentication for %q", req.GetAccount())

	return nil
}
