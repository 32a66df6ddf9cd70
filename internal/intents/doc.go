/*
Package intents forwards navigation intents emitted by engines.

An engine only ever asks for a view change; a Router fans each intent out to
the registered sinks. Webhook is a sink that posts intents to an HTTP
endpoint from a background worker, retrying failed deliveries.

	hook, err := intents.NewWebhook(intents.WebhookConfig{URL: url}, metrics, logger)
	if err != nil {
		return err
	}
	go hook.Run(ctx)

	router := intents.NewRouter(sessionID, logger, hook)
	eng, _ := engine.New(engine.Options{Router: router, ...})
*/
package intents
