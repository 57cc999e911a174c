package playground

import "html"

// Page wraps the body markup in a full document with the client script.
func Page(title, body string) string {
	return `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>` + html.EscapeString(title) + `</title>
</head>
<body>
<div id="cellbind-root">` + body + `</div>
` + ClientScript + `
</body>
</html>
`
}

// ClientScript forwards events to the server and swaps in the markup it
// sends back. Targets are child index paths from the root element.
const ClientScript = `
<script>
(function() {
    'use strict';

    var root = document.getElementById('cellbind-root');
    var ws = null;
    var focusPath = null;

    function pathOf(node) {
        var parts = [];
        while (node && node !== root) {
            var i = 0;
            for (var c = node.parentNode.firstChild; c !== node; c = c.nextSibling) i++;
            parts.unshift(i);
            node = node.parentNode;
        }
        return node === root ? parts.join('/') : null;
    }

    function nodeAt(path) {
        var node = root;
        if (path === '') return node;
        path.split('/').forEach(function(i) {
            node = node && node.childNodes[+i];
        });
        return node;
    }

    function send(evt) {
        if (ws && ws.readyState === WebSocket.OPEN) {
            ws.send(JSON.stringify(evt));
        }
    }

    root.addEventListener('click', function(e) {
        var path = pathOf(e.target);
        if (path !== null) send({ target: path, type: 'click' });
    });

    root.addEventListener('input', function(e) {
        var el = e.target, path = pathOf(el);
        if (path === null) return;
        focusPath = path;
        if (el.type === 'checkbox') {
            send({ target: path, type: 'input', property: 'checked', value: el.checked });
        } else {
            send({ target: path, type: 'input', property: 'value', value: el.value });
        }
    });

    root.addEventListener('change', function(e) {
        if (e.target.type === 'checkbox') return;
        var path = pathOf(e.target);
        if (path !== null) send({ target: path, type: 'change' });
    });

    function connect() {
        var protocol = location.protocol === 'https:' ? 'wss:' : 'ws:';
        ws = new WebSocket(protocol + '//' + location.host + '/ws');

        ws.onmessage = function(e) {
            var msg;
            try {
                msg = JSON.parse(e.data);
            } catch (err) {
                return;
            }
            if (msg.type === 'render') {
                root.innerHTML = msg.html;
                var el = focusPath !== null && nodeAt(focusPath);
                if (el && el.focus) el.focus();
            } else if (msg.type === 'error') {
                console.error('[cellbind]', msg.code, msg.error);
            }
        };

        ws.onclose = function() {
            setTimeout(connect, 1000);
        };
    }

    connect();
})();
</script>
`
