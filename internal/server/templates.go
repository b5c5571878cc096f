package server

const indexTemplate = `<!DOCTYPE html>
<html>
<head>
    <title>Photo Gallery</title>
    <meta name="viewport" content="width=device-width, initial-scale=1">
    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }
        body {
            font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Arial, sans-serif;
            background: #000;
            min-height: 100vh;
            color: #fafafa;
            padding: 20px;
        }
        .container { max-width: 1200px; margin: 0 auto; }
        .header {
            background: #0a0a0a;
            border: 1px solid #1a1a1a;
            border-radius: 12px;
            padding: 24px;
            margin-bottom: 24px;
            display: flex;
            justify-content: space-between;
            align-items: center;
        }
        h1 { font-size: 28px; font-weight: 600; }
        .notice {
            border-radius: 8px;
            padding: 12px 16px;
            margin-bottom: 16px;
            font-size: 14px;
        }
        .notice-success { background: #166534; }
        .notice-error { background: #991b1b; }
        .upload-box {
            background: #0a0a0a;
            border: 1px solid #1a1a1a;
            border-radius: 12px;
            padding: 24px;
            margin-bottom: 24px;
        }
        .grid {
            display: grid;
            grid-template-columns: repeat(auto-fill, minmax(200px, 1fr));
            gap: 16px;
        }
        .card {
            background: #0a0a0a;
            border: 1px solid #1a1a1a;
            border-radius: 12px;
            padding: 12px;
            text-align: center;
        }
        .card img { width: 100%; height: 160px; object-fit: cover; border-radius: 8px; }
        .card .name { font-size: 12px; color: #888; margin-top: 8px; word-break: break-all; }
        a { color: #60a5fa; text-decoration: none; }
        button, input[type=submit] {
            background: #1e3a8a;
            color: #fff;
            border: none;
            border-radius: 8px;
            padding: 8px 16px;
            cursor: pointer;
            margin-top: 8px;
        }
        .delete-btn { background: #991b1b; }
        input[type=file] { color: #888; }
        .empty { color: #888; padding: 40px; text-align: center; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>Photo Gallery</h1>
            <div>
                {{if .IsAdmin}}
                    <span style="color: #888; margin-right: 12px;">{{.Username}}</span>
                    <a href="/logout">Logout</a>
                {{else}}
                    <a href="/login">Admin Login</a>
                {{end}}
            </div>
        </div>

        {{range .Notices}}
        <div class="notice notice-{{.Kind}}">{{.Message}}</div>
        {{end}}

        {{if .IsAdmin}}
        <div class="upload-box">
            <form action="/upload" method="post" enctype="multipart/form-data">
                <input type="file" name="file" accept=".png,.jpg,.jpeg,.gif">
                <input type="submit" value="Upload">
            </form>
        </div>
        {{end}}

        {{if .Images}}
        <div class="grid">
            {{range .Images}}
            <div class="card">
                <a href="/uploads/{{.}}" target="_blank">
                    <img src="/thumbnails/{{.}}" onerror="this.src='/uploads/{{.}}'" alt="{{.}}">
                </a>
                <div class="name">{{.}}</div>
                {{if $.IsAdmin}}
                <form action="/delete/{{.}}" method="post">
                    <button class="delete-btn" type="submit">Delete</button>
                </form>
                {{end}}
            </div>
            {{end}}
        </div>
        {{else}}
        <div class="empty">No images yet.</div>
        {{end}}
    </div>

    <script>
        (function connect() {
            var proto = location.protocol === "https:" ? "wss://" : "ws://";
            var sock = new WebSocket(proto + location.host + "/ws");
            sock.onmessage = function() { location.reload(); };
            sock.onclose = function() { setTimeout(connect, 5000); };
        })();
    </script>
</body>
</html>`

const loginTemplate = `<!DOCTYPE html>
<html>
<head>
    <title>Login - Photo Gallery</title>
    <meta name="viewport" content="width=device-width, initial-scale=1">
    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }
        body {
            font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Arial, sans-serif;
            background: #000;
            min-height: 100vh;
            color: #fafafa;
            display: flex;
            align-items: center;
            justify-content: center;
        }
        .login-box {
            background: #0a0a0a;
            border: 1px solid #1a1a1a;
            border-radius: 12px;
            padding: 32px;
            width: 320px;
        }
        h1 { font-size: 22px; margin-bottom: 20px; }
        .notice {
            border-radius: 8px;
            padding: 10px 14px;
            margin-bottom: 16px;
            font-size: 14px;
        }
        .notice-success { background: #166534; }
        .notice-error { background: #991b1b; }
        label { display: block; font-size: 13px; color: #888; margin-bottom: 4px; }
        input[type=text], input[type=password] {
            width: 100%;
            padding: 10px;
            margin-bottom: 16px;
            background: #111;
            border: 1px solid #1a1a1a;
            border-radius: 8px;
            color: #fafafa;
        }
        input[type=submit] {
            width: 100%;
            background: #1e3a8a;
            color: #fff;
            border: none;
            border-radius: 8px;
            padding: 10px;
            cursor: pointer;
        }
        .back { display: block; text-align: center; margin-top: 16px; font-size: 13px; }
        a { color: #60a5fa; text-decoration: none; }
    </style>
</head>
<body>
    <div class="login-box">
        <h1>Admin Login</h1>
        {{range .Notices}}
        <div class="notice notice-{{.Kind}}">{{.Message}}</div>
        {{end}}
        <form method="post" action="/login">
            <label>Username</label>
            <input type="text" name="username" autofocus>
            <label>Password</label>
            <input type="password" name="password">
            <input type="submit" value="Login">
        </form>
        <a class="back" href="/">Back to gallery</a>
    </div>
</body>
</html>`
